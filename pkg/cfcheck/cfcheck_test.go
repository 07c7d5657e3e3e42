package cfcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dcerrors "github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/report"
)

const output = `CHECKING NetCDF FILE: /tmp/sample.nc
=====================
Using CF Checker Version 4.1.0
Checking against CF Version CF-1.7
Using Standard Name Table Version 84 (2024-01-19T15:55:10Z)

WARN: (2.6.1): No 'Conventions' attribute present
ERROR: (2.6.2): global attribute history must be a string

------------------
Checking variable: t2m
------------------
ERROR: (3.3): Invalid standard_name: air_temp
ERROR: (3.1): Invalid units: kelvins
INFO: (3.1): units are fine otherwise

------------------
Checking variable: latitude
------------------
WARN: (4.1): latitude has no axis attribute

ERRORS detected: 3
WARNINGS given: 2
INFORMATION messages: 1
`

func TestParse(t *testing.T) {
	res, err := Parse([]byte(output))
	require.NoError(t, err)

	assert.Equal(t, []string{"(2.6.1): No 'Conventions' attribute present"}, res.Global[Warn])
	assert.Len(t, res.Variables["t2m"][Error], 2)
	assert.Len(t, res.Variables["latitude"][Warn], 1)
	assert.Equal(t, 3, res.Counts[Error])
	assert.Equal(t, 2, res.Counts[Warn])
	assert.Equal(t, 1, res.Counts[Info])
	assert.Equal(t, 0, res.Counts[Fatal])
	assert.True(t, res.HasErrors())

	want := report.Report{
		"global": "(2.6.2): global attribute history must be a string",
		"variables": report.Report{
			"t2m": "(3.3): Invalid standard_name: air_temp\n(3.1): Invalid units: kelvins",
		},
	}
	assert.Equal(t, want, res.Errors())
}

func TestParseFatalFirst(t *testing.T) {
	res, err := Parse([]byte("FATAL: file is not netCDF\nERROR: (2.1): bad name\nERRORS detected: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Counts[Fatal])
	assert.Equal(t, report.Report{"global": "file is not netCDF\n(2.1): bad name"}, res.Errors())
}

func TestParseClean(t *testing.T) {
	res, err := Parse([]byte("WARN: (2.6.1): no Conventions\nERRORS detected: 0\nWARNINGS given: 1\n"))
	require.NoError(t, err)
	assert.False(t, res.HasErrors())
	assert.Empty(t, res.Errors())
}

func TestParseNoSummary(t *testing.T) {
	_, err := Parse([]byte("Traceback (most recent call last):\n"))
	assert.Equal(t, dcerrors.ErrCodeInvalidRequest, dcerrors.CodeOf(err))
}

func TestVersions(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		known bool
	}{
		{"", Auto, true},
		{"auto", Auto, true},
		{"1.7", "1.7", true},
		{"CF-1.11", "1.11", true},
		{"1.99", "1.99", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeVersion(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, IsKnownVersion(got))
		})
	}

	_, err := NormalizeVersion("one.seven")
	assert.Error(t, err)

	msg := UnavailableMessage("1.99")
	assert.Contains(t, msg, "version=CF-1.99 is not available.\nAvailable versions: ['CF-1.0', ")
	assert.Contains(t, msg, "'CF-1.11'].")
}

type stubRunner struct {
	out  string
	err  error
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	s.args = append([]string{name}, args...)
	return []byte(s.out), s.err
}

func TestCheckerCheck(t *testing.T) {
	// cfchecks exits non-zero when errors are found
	r := &stubRunner{out: output, err: errors.New("exit status 3")}
	res, err := NewChecker(r).Check(context.Background(), "a.nc", "1.7", "/tmp/cache")
	require.NoError(t, err)
	assert.True(t, res.HasErrors())
	assert.Equal(t, []string{"cfchecks", "-x", "-t", "10", "--cache_dir", "/tmp/cache", "-v", "1.7", "a.nc"}, r.args)

	_, err = NewChecker(&stubRunner{err: errors.New("not found")}).Check(context.Background(), "a.nc", Auto, "/tmp")
	assert.Equal(t, dcerrors.ErrCodeUnavailable, dcerrors.CodeOf(err))

	_, err = NewChecker(&stubRunner{out: "garbage"}).Check(context.Background(), "a.nc", Auto, "/tmp")
	assert.Equal(t, dcerrors.ErrCodeInvalidRequest, dcerrors.CodeOf(err))
}
