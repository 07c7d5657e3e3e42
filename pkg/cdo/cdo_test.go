package cdo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dcerrors "github.com/NVIDIA/data-checker/pkg/errors"
)

const griddes = `#
# gridID 1
#
gridtype  = lonlat
gridsize  = 6
xsize     = 3
ysize     = 2
xname     = longitude
xlongname = "longitude"
xunits    = "degrees_east"
yname     = latitude
xfirst    = 0
xinc      = 2
yvals     = 10 8
            6 4
scanningMode = 'ok'
`

func TestParserEntries(t *testing.T) {
	entries, err := NewParser().Entries([]byte(griddes))
	require.NoError(t, err)
	assert.Equal(t, "gridtype=lonlat", entries[0])
	assert.Contains(t, entries, "xunits=degrees_east")
	assert.Contains(t, entries, "yvals=10 8")
	assert.Contains(t, entries, "scanningMode=ok")
	assert.Len(t, entries, 12)
}

func TestParserMapLastWins(t *testing.T) {
	m, err := NewParser().Map([]byte("# gridID 1\ngridtype = gaussian\n# gridID 2\ngridtype = lonlat\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"gridtype": "lonlat"}, m)
}

func TestParserRejects(t *testing.T) {
	p := &Parser{maxSize: 64}
	_, err := p.Map(make([]byte, 65))
	assert.Equal(t, dcerrors.ErrCodeInvalidRequest, dcerrors.CodeOf(err))

	_, err = NewParser().Map([]byte{0xff, 0xfe})
	assert.Equal(t, dcerrors.ErrCodeInvalidRequest, dcerrors.CodeOf(err))
}

func TestParserStripsQuotesAndComments(t *testing.T) {
	m, err := NewParser().Map([]byte("  # xname = skipped\nxunits = \"degrees_east\"\nyname='lat'\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"xunits": "degrees_east", "yname": "lat"}, m)
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

func TestDescribe(t *testing.T) {
	r := &stubRunner{out: "zaxistype = surface\nsize = 1\nlevels = 0\n"}
	m, err := NewDescriber(r).Describe(context.Background(), "a.grib", ZAxisDescription)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"zaxistype": "surface", "size": "1", "levels": "0"}, m)
	assert.Equal(t, []string{"cdo", "-s", "zaxisdes", "a.grib"}, r.args)
}

func TestDescribeErrors(t *testing.T) {
	_, err := NewDescriber(&stubRunner{}).Describe(context.Background(), "a.nc", "vertdes")
	assert.Equal(t, dcerrors.ErrCodeInvalidRequest, dcerrors.CodeOf(err))

	_, err = NewDescriber(&stubRunner{err: errors.New("exit status 1")}).Describe(context.Background(), "a.nc", GridDescription)
	assert.Equal(t, dcerrors.ErrCodeUnavailable, dcerrors.CodeOf(err))
}
