package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/data-checker/pkg/dispatcher"
	"github.com/NVIDIA/data-checker/pkg/report"
)

func sampleResult() *dispatcher.RunResult {
	return &dispatcher.RunResult{
		Summary: dispatcher.Summary{Passed: 1, Failed: 2, Skipped: 1, Errored: 1, Total: 4},
		Results: []dispatcher.CheckResult{
			{Name: "cf_compliance", Status: dispatcher.CheckStatusSkipped},
			{Name: "format", Status: dispatcher.CheckStatusFailed, Errors: report.Report{"a.nc": "NETCDF3_CLASSIC"}},
			{Name: "global_attributes", Status: dispatcher.CheckStatusPassed},
			{Name: "temporal_resolution", Status: dispatcher.CheckStatusErrored, Message: "time not found"},
		},
	}
}

func TestPrintResultPlain(t *testing.T) {
	result := sampleResult()
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, result, false))
	assert.Equal(t, result.Text(), buf.String())
	assert.Contains(t, buf.String(), "temporal_resolution\n  time not found\n")
	assert.Contains(t, buf.String(), "temporal_resolution: FAILED\n")
}

func TestPrintResultColored(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, sampleResult(), true))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "PASSED")
}
