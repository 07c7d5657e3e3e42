package dataset

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

func sample(t *testing.T, loader Loader) *Dataset {
	t.Helper()
	ds := New(loader)
	ds.AddDimension("time", 2, true)
	ds.AddDimension("latitude", 3, false)
	ds.Attrs["Conventions"] = "CF-1.7"
	_, err := ds.AddVariable("time", "double", []string{"time"}, Attributes{"units": "days since 1900-01-01"})
	require.NoError(t, err)
	_, err = ds.AddVariable("latitude", "float", []string{"latitude"}, nil)
	require.NoError(t, err)
	_, err = ds.AddVariable("height", "float", nil, nil)
	require.NoError(t, err)
	_, err = ds.AddVariable("t2m", "float", []string{"time", "latitude"}, Attributes{"coordinates": "height", "units": "K"})
	require.NoError(t, err)
	_, err = ds.AddVariable("lsm", "byte", []string{"latitude"}, nil)
	require.NoError(t, err)
	return ds
}

func TestDatasetMaps(t *testing.T) {
	ds := sample(t, nil)

	assert.Equal(t, map[string]int{"time": 2, "latitude": 3}, ds.Sizes())
	assert.Equal(t, map[string]int{"time": 2, "latitude": 3}, ds.VariableSizes()["t2m"])
	assert.Equal(t, map[string]int{}, ds.VariableSizes()["height"])
	assert.Equal(t, "K", ds.VariableAttrs()["t2m"]["units"])
	assert.Equal(t, []string{"time", "latitude", "height"}, ds.Coordinates())
	assert.Equal(t, []string{"t2m", "lsm"}, ds.DataVars())

	v, ok := ds.Variable("t2m")
	require.True(t, ok)
	assert.Equal(t, 6, v.Len())
}

func TestAddVariableUndeclaredDim(t *testing.T) {
	ds := New(nil)
	_, err := ds.AddVariable("x", "int", []string{"missing"}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestValuesLoadedOnce(t *testing.T) {
	calls := 0
	ds := sample(t, LoaderFunc(func(_ context.Context, name string) ([]float64, error) {
		calls++
		return []float64{1, 2, 3}, nil
	}))

	for i := 0; i < 2; i++ {
		vals, err := ds.Values(context.Background(), "lsm")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, vals)
	}
	assert.Equal(t, 1, calls)

	_, err := ds.Values(context.Background(), "nope")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))

	// wrong length from the loader
	_, err = ds.Values(context.Background(), "t2m")
	assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(err))
}

func TestAll(t *testing.T) {
	nan := math.NaN()
	mask := Array{Dims: []string{"latitude"}, Shape: []int{3}, Values: []float64{1, 0, 1}}
	notNullWhereMask := func(m, v float64) bool { return m == 0 || !IsNull(v) }

	tests := []struct {
		name string
		data Array
		want bool
	}{
		{
			name: "valid where mask set",
			data: Array{Dims: []string{"time", "latitude"}, Shape: []int{2, 3}, Values: []float64{1, nan, 3, 4, nan, 6}},
			want: true,
		},
		{
			name: "null under mask",
			data: Array{Dims: []string{"time", "latitude"}, Shape: []int{2, 3}, Values: []float64{1, nan, 3, 4, 5, nan}},
			want: false,
		},
		{
			name: "disjoint dims broadcast",
			data: Array{Dims: []string{"time"}, Shape: []int{2}, Values: []float64{1, 2}},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := All(mask, tt.data, notNullWhereMask)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllSizeMismatch(t *testing.T) {
	a := Array{Dims: []string{"x"}, Shape: []int{2}, Values: []float64{1, 1}}
	b := Array{Dims: []string{"x"}, Shape: []int{3}, Values: []float64{1, 1, 1}}
	_, err := All(a, b, func(float64, float64) bool { return true })
	require.Error(t, err)
}

func TestHasDims(t *testing.T) {
	a := Array{Dims: []string{"time", "latitude"}}
	assert.True(t, a.HasDims([]string{"latitude"}))
	assert.True(t, a.HasDims(nil))
	assert.False(t, a.HasDims([]string{"longitude"}))
}
