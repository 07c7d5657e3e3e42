package defaults

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurations(t *testing.T) {
	assert.GreaterOrEqual(t, CommandWaitDelay, time.Second)
	assert.LessOrEqual(t, CommandWaitDelay, time.Minute)
	assert.Positive(t, CFTableCacheDays)
}

func TestCheckDefaults(t *testing.T) {
	assert.Equal(t, "time", TimeCoordinate)
	assert.GreaterOrEqual(t, Jobs, 1)
	// GRIB indicator plus the edition octet must fit.
	assert.GreaterOrEqual(t, HeaderSniffSize, 8)
}

func TestToolNames(t *testing.T) {
	for _, tool := range []string{NCDump, GribLs, GribCopy, GribToNetCDF, CDO, CFChecks} {
		assert.NotEmpty(t, tool)
		assert.NotContains(t, tool, " ")
	}
}
