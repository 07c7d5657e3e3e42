package format

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

// fakeRunner answers tool invocations from a function and records them.
type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	fn    func(name string, args []string) ([]byte, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	f.mu.Unlock()
	return f.fn(name, args)
}

func (f *fakeRunner) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("grib")
	require.NoError(t, err)
	assert.Equal(t, KindGRIB, k)

	k, err = ParseKind(" NETCDF ")
	require.NoError(t, err)
	assert.Equal(t, KindNetCDF, k)
	assert.Equal(t, []string{".nc"}, k.Extensions())

	_, err = ParseKind("zarr")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestNetCDFReader(t *testing.T) {
	path := writeFile(t, "a.nc", []byte("CDF\x01rest-of-header"))
	runner := &fakeRunner{fn: func(name string, args []string) ([]byte, error) {
		switch {
		case args[0] == "-k":
			return []byte("netCDF-4 classic model\n"), nil
		case args[0] == "-h":
			return []byte(dataCDL[:strings.Index(dataCDL, "data:")] + "}\n"), nil
		case args[0] == "-p" && args[3] == "t2m":
			return []byte(dataCDL), nil
		}
		return nil, fmt.Errorf("unexpected call %v", args)
	}}

	open, err := NewFactory(KindNetCDF, runner)
	require.NoError(t, err)
	r, err := open(path)
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	assert.Equal(t, path, r.Path())

	for i := 0; i < 2; i++ {
		full, err := r.FullFormat(ctx)
		require.NoError(t, err)
		assert.Equal(t, "NETCDF4_CLASSIC", full)
	}
	assert.Equal(t, 1, runner.count("ncdump -k"))

	sizes, err := r.GlobalSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"time": 2, "latitude": 2}, sizes)

	vsizes, err := r.VariableSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"time": 2, "latitude": 2}, vsizes["t2m"])

	vattrs, err := r.VariableAttrs(ctx)
	require.NoError(t, err)
	assert.Equal(t, -32767.0, vattrs["t2m"]["missing_value"])

	attrs, err := r.GlobalAttrs(ctx)
	require.NoError(t, err)
	assert.Empty(t, attrs)
	assert.Equal(t, 1, runner.count("ncdump -h"))

	ds, err := r.Dataset(ctx)
	require.NoError(t, err)
	vals, err := ds.Values(ctx, "t2m")
	require.NoError(t, err)
	assert.Len(t, vals, 4)
	assert.Equal(t, 1, runner.count("ncdump -p 9,17 -v t2m"))
}

func TestNetCDFReaderUnknownKind(t *testing.T) {
	path := writeFile(t, "a.nc", []byte("CDF\x02"))
	runner := &fakeRunner{fn: func(string, []string) ([]byte, error) { return []byte("zarr"), nil }}
	open, err := NewFactory(KindNetCDF, runner)
	require.NoError(t, err)
	r, err := open(path)
	require.NoError(t, err)
	_, err = r.FullFormat(context.Background())
	assert.Equal(t, errors.ErrCodeUnsupported, errors.CodeOf(err))
}

func TestSniff(t *testing.T) {
	hdf5 := append(make([]byte, 512), hdf5Signature...)
	tests := []struct {
		name    string
		kind    Kind
		content []byte
		wantErr errors.ErrorCode
	}{
		{name: "cdf1", kind: KindNetCDF, content: []byte("CDF\x01")},
		{name: "cdf5", kind: KindNetCDF, content: []byte("CDF\x05")},
		{name: "hdf5", kind: KindNetCDF, content: hdf5Signature},
		{name: "hdf5 user block", kind: KindNetCDF, content: hdf5},
		{name: "grib as netcdf", kind: KindNetCDF, content: []byte("GRIB\x00\x00\x00\x02"), wantErr: errors.ErrCodeUnsupported},
		{name: "grib", kind: KindGRIB, content: []byte("GRIB\x00\x00\x00\x02")},
		{name: "wmo header", kind: KindGRIB, content: []byte("TTAA00 ECMF\r\r\nGRIB\x00\x00\x00\x01")},
		{name: "netcdf as grib", kind: KindGRIB, content: []byte("CDF\x01"), wantErr: errors.ErrCodeUnsupported},
		{name: "truncated grib", kind: KindGRIB, content: []byte("GRIB\x00"), wantErr: errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "f", tt.content)
			open, err := NewFactory(tt.kind, &fakeRunner{})
			require.NoError(t, err)
			_, err = open(path)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errors.CodeOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}

	open, err := NewFactory(KindNetCDF, &fakeRunner{})
	require.NoError(t, err)
	_, err = open(filepath.Join(t.TempDir(), "missing.nc"))
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))

	_, err = NewFactory(Kind("HDF4"), &fakeRunner{})
	assert.Error(t, err)
}

const gribLsJSON = `{ "messages" : [
  {
    "edition": 1,
    "centre": "ecmf",
    "centreDescription": "European Centre for Medium-Range Weather Forecasts",
    "subCentre": 0,
    "paramId": 130,
    "shortName": "t",
    "cfVarName": "t",
    "units": "K",
    "typeOfLevel": "isobaricInhPa",
    "iDirectionIncrementInDegrees": 2.5,
    "NV": "not_found"
  },
  {
    "edition": 1,
    "centre": "ecmf",
    "paramId": 130,
    "shortName": "t",
    "cfVarName": "t"
  },
  {
    "edition": 1,
    "centre": "ecmf",
    "paramId": 167,
    "shortName": "2t",
    "cfVarName": "t2m",
    "units": "K"
  }
]}`

func TestGRIBReader(t *testing.T) {
	path := writeFile(t, "era5.grib", []byte("GRIB\x00\x00\x00\x01payload"))
	var converted string
	runner := &fakeRunner{fn: func(name string, args []string) ([]byte, error) {
		switch name {
		case "grib_ls":
			return []byte(gribLsJSON), nil
		case "grib_to_netcdf":
			converted = args[1]
			return nil, os.WriteFile(converted, []byte("CDF\x01"), 0o600)
		case "ncdump":
			return []byte(headerCDL), nil
		}
		return nil, fmt.Errorf("unexpected %s", name)
	}}

	open, err := NewFactory(KindGRIB, runner)
	require.NoError(t, err)
	r, err := open(path)
	require.NoError(t, err)
	ctx := context.Background()

	full, err := r.FullFormat(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GRIB1", full)

	global, err := r.GlobalAttrs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), global["edition"])
	assert.Equal(t, "ecmf", global["centre"])
	assert.Equal(t, int64(0), global["subCentre"])

	vars, err := r.VariableAttrs(ctx)
	require.NoError(t, err)
	require.Contains(t, vars, "t")
	require.Contains(t, vars, "t2m")
	assert.Equal(t, "isobaricInhPa", vars["t"]["typeOfLevel"])
	assert.Equal(t, 2.5, vars["t"]["iDirectionIncrementInDegrees"])
	assert.Equal(t, "ecmf", vars["t"]["centre"])
	assert.NotContains(t, vars["t"], "NV")
	assert.Equal(t, int64(167), vars["t2m"]["paramId"])
	assert.Equal(t, 1, runner.count("grib_ls"))

	sizes, err := r.GlobalSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sizes["latitude"])
	_, err = r.VariableSizes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, runner.count("grib_to_netcdf"))
	assert.Equal(t, "era5.nc", filepath.Base(converted))
	assert.FileExists(t, converted)

	require.NoError(t, r.Close())
	assert.NoFileExists(t, converted)
}

func TestGRIBSample(t *testing.T) {
	path := writeFile(t, "era5.grib", []byte("GRIB\x00\x00\x00\x02"))
	runner := &fakeRunner{fn: func(name string, args []string) ([]byte, error) {
		switch name {
		case "grib_copy":
			return nil, os.WriteFile(args[3], []byte("GRIB"), 0o600)
		case "grib_to_netcdf":
			return nil, os.WriteFile(args[1], []byte("CDF\x01"), 0o600)
		}
		return nil, fmt.Errorf("unexpected %s", name)
	}}
	open, err := NewFactory(KindGRIB, runner)
	require.NoError(t, err)
	r, err := open(path)
	require.NoError(t, err)

	s, ok := r.(Sampler)
	require.True(t, ok)
	dst := filepath.Join(t.TempDir(), "sample.nc")
	require.NoError(t, s.Sample(context.Background(), dst))
	assert.FileExists(t, dst)
	assert.NoFileExists(t, strings.TrimSuffix(dst, ".nc")+".grib")
	assert.Equal(t, 1, runner.count("grib_copy -w count=1"))
}

func TestParseGribLsInvalid(t *testing.T) {
	_, err := parseGribLs([]byte("not json"))
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}
