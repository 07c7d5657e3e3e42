package dispatcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/data-checker/pkg/report"
)

func TestRunResultTableRows(t *testing.T) {
	r := &RunResult{}
	r.add(CheckResult{Name: "cf_compliance", Status: CheckStatusSkipped})
	r.add(CheckResult{
		Name:     "format",
		Status:   CheckStatusFailed,
		Errors:   report.Report{"a.nc": "NETCDF3_CLASSIC"},
		Duration: 1500 * time.Microsecond,
	})
	r.add(CheckResult{Name: "completeness", Status: CheckStatusErrored, Message: "mask not found"})
	r.Summary.Status = RunStatusFail

	header, rows, footer := r.TableRows()
	assert.Equal(t, []string{"check", "status", "duration", "findings"}, header)
	assert.Equal(t, [][]string{
		{"cf_compliance", "SKIPPED", "", ""},
		{"format", "FAILED", "2ms", "a.nc: NETCDF3_CLASSIC"},
		{"completeness", "ERRORED", "0s", "mask not found"},
	}, rows)
	assert.Equal(t, "fail", footer[1])
	assert.Equal(t, "passed 0, skipped 1, failed 2", footer[3])
}

func TestRunResultText(t *testing.T) {
	r := &RunResult{}
	r.add(CheckResult{Name: "format", Status: CheckStatusPassed})
	r.add(CheckResult{Name: "temporal_resolution", Status: CheckStatusErrored, Message: "time not found"})

	assert.Equal(t, "temporal_resolution\n  time not found\nSUMMARY:\nformat: PASSED\n"+
		"temporal_resolution: FAILED\nPASSED: 1\nSKIPPED: 0\nFAILED: 1\n", r.Text())
	assert.True(t, r.Failed())
	assert.Equal(t, 1, r.Summary.Errored)
}
