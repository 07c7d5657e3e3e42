package checker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsString(t *testing.T) {
	args := Args{"s": "NETCDF", "f": 1.7, "i": int64(2), "b": true, "n": nil}

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "s", want: "NETCDF"},
		{name: "f", want: "1.7"},
		{name: "i", want: "2"},
		{name: "n", want: ""},
		{name: "missing", want: ""},
		{name: "b", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := args.String(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgsBool(t *testing.T) {
	args := Args{"t": true, "s": "true"}

	v, err := args.Bool("t")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = args.Bool("missing")
	require.NoError(t, err)
	assert.False(t, v)

	_, err = args.Bool("s")
	assert.Error(t, err)
}

func TestArgsStrings(t *testing.T) {
	args := Args{"list": []any{"a", "b"}, "one": "a", "mixed": []any{"a", 1}, "typed": []string{"x"}}

	v, err := args.Strings("list")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)

	v, err = args.Strings("one")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)

	v, err = args.Strings("typed")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, v)

	v, err = args.Strings("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	empty := Args{"list": []any{}, "typed": []string(nil)}
	for _, name := range []string{"list", "typed"} {
		v, err = empty.Strings(name)
		require.NoError(t, err)
		assert.NotNil(t, v, name)
		assert.Empty(t, v, name)
	}

	_, err = args.Strings("mixed")
	assert.Error(t, err)
}

func TestArgsTime(t *testing.T) {
	want := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	args := Args{
		"date":  "1900-01-01",
		"time":  want,
		"bad":   "yesterday",
		"other": 1900,
	}

	v, err := args.Time("date")
	require.NoError(t, err)
	assert.True(t, want.Equal(*v))

	v, err = args.Time("time")
	require.NoError(t, err)
	assert.True(t, want.Equal(*v))

	v, err = args.Time("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = args.Time("bad")
	assert.Error(t, err)
	_, err = args.Time("other")
	assert.Error(t, err)
}

func TestArgsSections(t *testing.T) {
	got, err := Args{"t2m": map[string]any{"units": "K"}}.Sections()
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]any{"t2m": {"units": "K"}}, got)

	_, err = Args{"units": "K"}.Sections()
	assert.Error(t, err)
}

func TestArgsMap(t *testing.T) {
	args := Args{"a": 1}
	m := args.Map()
	m["b"] = 2
	assert.NotContains(t, args, "b")
	assert.True(t, args.Has("a"))
	assert.False(t, args.Has("b"))
}
