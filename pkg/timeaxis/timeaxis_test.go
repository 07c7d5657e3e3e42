package timeaxis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		units   string
		secs    float64
		ref     time.Time
		wantErr errors.ErrorCode
	}{
		{units: "days since 1900-01-01", secs: 86400, ref: date(1900, 1, 1)},
		{units: "hours since 1900-01-01 00:00:00.0", secs: 3600, ref: date(1900, 1, 1)},
		{units: "seconds since 1970-1-1T06:30:00Z", secs: 1, ref: time.Date(1970, 1, 1, 6, 30, 0, 0, time.UTC)},
		{units: "minutes since 2000-02-29 12:00 UTC", secs: 60, ref: time.Date(2000, 2, 29, 12, 0, 0, 0, time.UTC)},
		{units: "months since 1900-01-01", wantErr: errors.ErrCodeUnsupported},
		{units: "days", wantErr: errors.ErrCodeInvalidRequest},
		{units: "days since yesterday", wantErr: errors.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.units, func(t *testing.T) {
			u, err := ParseUnits(tt.units)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secs, u.Seconds)
			assert.True(t, tt.ref.Equal(u.Reference), "got %v", u.Reference)
		})
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode([]float64{0, 31, 59, 90}, "days since 1900-01-01", "proleptic_gregorian")
	require.NoError(t, err)
	want := []time.Time{date(1900, 1, 1), date(1900, 2, 1), date(1900, 3, 1), date(1900, 4, 1)}
	assert.Equal(t, want, got)

	half, err := Decode([]float64{1.5}, "hours since 2000-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 1, 1, 1, 30, 0, 0, time.UTC), half[0])

	_, err = Decode([]float64{0}, "days since 1900-01-01", "360_day")
	assert.Equal(t, errors.ErrCodeUnsupported, errors.CodeOf(err))

	_, err = Decode([]float64{math.NaN()}, "days since 1900-01-01", "standard")
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1900-01-01T00:00:00.000000000", Format(date(1900, 1, 1)))
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2000-04-01")
	require.NoError(t, err)
	assert.Equal(t, date(2000, 4, 1), got)

	got, err = ParseTime("2000-04-01T06:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 4, 1, 6, 0, 0, 0, time.UTC), got)

	_, err = ParseTime("April")
	assert.Error(t, err)
}

func TestParseFrequencyErrors(t *testing.T) {
	for _, s := range []string{"", "0D", "1X", "MS-JAN", "QS-XYZ", "W-FOO", "1.5h"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseFrequency(s)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
		})
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		freq  string
		start time.Time
		end   time.Time
		want  []time.Time
	}{
		{
			freq:  "1MS",
			start: date(1900, 1, 1),
			end:   date(1900, 4, 1),
			want:  []time.Time{date(1900, 1, 1), date(1900, 2, 1), date(1900, 3, 1), date(1900, 4, 1)},
		},
		{
			freq:  "MS",
			start: date(1900, 1, 15),
			end:   date(1900, 3, 1),
			want:  []time.Time{date(1900, 2, 1), date(1900, 3, 1)},
		},
		{
			freq:  "ME",
			start: date(2000, 1, 31),
			end:   date(2000, 4, 30),
			want:  []time.Time{date(2000, 1, 31), date(2000, 2, 29), date(2000, 3, 31), date(2000, 4, 30)},
		},
		{
			freq:  "6h",
			start: date(2000, 1, 1),
			end:   time.Date(2000, 1, 1, 18, 0, 0, 0, time.UTC),
			want: []time.Time{
				date(2000, 1, 1),
				time.Date(2000, 1, 1, 6, 0, 0, 0, time.UTC),
				time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
				time.Date(2000, 1, 1, 18, 0, 0, 0, time.UTC),
			},
		},
		{
			freq:  "2D",
			start: date(2000, 1, 1),
			end:   date(2000, 1, 6),
			want:  []time.Time{date(2000, 1, 1), date(2000, 1, 3), date(2000, 1, 5)},
		},
		{
			freq:  "QS",
			start: date(2000, 2, 1),
			end:   date(2001, 1, 1),
			want:  []time.Time{date(2000, 4, 1), date(2000, 7, 1), date(2000, 10, 1), date(2001, 1, 1)},
		},
		{
			freq:  "QE-NOV",
			start: date(2000, 1, 1),
			end:   date(2000, 12, 31),
			want:  []time.Time{date(2000, 2, 29), date(2000, 5, 31), date(2000, 8, 31), date(2000, 11, 30)},
		},
		{
			freq:  "YS",
			start: date(2000, 1, 1),
			end:   date(2002, 6, 1),
			want:  []time.Time{date(2000, 1, 1), date(2001, 1, 1), date(2002, 1, 1)},
		},
		{
			freq:  "A",
			start: date(2000, 3, 1),
			end:   date(2001, 12, 31),
			want:  []time.Time{date(2000, 12, 31), date(2001, 12, 31)},
		},
		{
			freq:  "W-MON",
			start: date(2024, 1, 3),
			end:   date(2024, 1, 20),
			want:  []time.Time{date(2024, 1, 8), date(2024, 1, 15)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.freq, func(t *testing.T) {
			f, err := ParseFrequency(tt.freq)
			require.NoError(t, err)
			assert.Equal(t, tt.freq, f.String())
			assert.Equal(t, tt.want, f.Range(tt.start, tt.end))
		})
	}
}
