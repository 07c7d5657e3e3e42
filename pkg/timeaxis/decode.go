// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package timeaxis decodes CF time coordinates and builds regular time axes
// from frequency aliases such as "1MS", "6h" or "QE-NOV".
package timeaxis

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

// Layout is used when reporting timestamps.
const Layout = "2006-01-02T15:04:05.000000000"

var unitSeconds = map[string]float64{
	"nanosecond": 1e-9, "nanoseconds": 1e-9, "ns": 1e-9,
	"microsecond": 1e-6, "microseconds": 1e-6, "us": 1e-6,
	"millisecond": 1e-3, "milliseconds": 1e-3, "ms": 1e-3,
	"second": 1, "seconds": 1, "sec": 1, "secs": 1, "s": 1,
	"minute": 60, "minutes": 60, "min": 60, "mins": 60,
	"hour": 3600, "hours": 3600, "hr": 3600, "hrs": 3600, "h": 3600,
	"day": 86400, "days": 86400, "d": 86400,
	"week": 7 * 86400, "weeks": 7 * 86400,
}

var refLayouts = []string{
	"2006-1-2 15:4:5",
	"2006-1-2T15:4:5",
	"2006-1-2 15:4",
	"2006-1-2T15:4",
	"2006-1-2 15",
	"2006-1-2",
}

var tzSuffix = regexp.MustCompile(`\s*(Z|UTC|GMT|[+-]0{1,2}(:?0{2})?)$`)

// Units is a parsed "<unit> since <reference>" string.
type Units struct {
	Seconds   float64
	Reference time.Time
}

// ParseUnits parses CF time units like "hours since 1900-01-01 00:00:00.0".
func ParseUnits(units string) (Units, error) {
	unit, ref, ok := strings.Cut(strings.TrimSpace(units), " since ")
	if !ok {
		return Units{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"time units must look like '<unit> since <date>'", map[string]any{"units": units})
	}
	secs, ok := unitSeconds[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return Units{}, errors.NewWithContext(errors.ErrCodeUnsupported,
			"unsupported time unit", map[string]any{"units": units})
	}

	ref = tzSuffix.ReplaceAllString(strings.TrimSpace(ref), "")
	for _, layout := range refLayouts {
		if t, err := time.Parse(layout, ref); err == nil {
			return Units{Seconds: secs, Reference: t.UTC()}, nil
		}
	}
	return Units{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
		"invalid reference date in time units", map[string]any{"units": units})
}

// Decode converts raw coordinate values into timestamps.
func Decode(values []float64, units, calendar string) ([]time.Time, error) {
	switch strings.ToLower(calendar) {
	case "", "standard", "gregorian", "proleptic_gregorian":
	default:
		return nil, errors.NewWithContext(errors.ErrCodeUnsupported,
			"unsupported calendar", map[string]any{"calendar": calendar})
	}

	u, err := ParseUnits(units)
	if err != nil {
		return nil, err
	}

	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"time coordinate contains missing values", map[string]any{"units": units})
		}
		out = append(out, u.At(v))
	}
	return out, nil
}

// At returns the timestamp for one raw value.
func (u Units) At(v float64) time.Time {
	secs := v * u.Seconds
	whole := math.Floor(secs)
	nanos := math.Round((secs - whole) * 1e9)
	return time.Unix(u.Reference.Unix()+int64(whole), int64(u.Reference.Nanosecond())+int64(nanos)).UTC()
}

// Format renders a timestamp the way check reports show it.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// ParseTime parses a user supplied bound such as "1900-01-01" or
// "1900-01-01T06:00:00".
func ParseTime(s string) (time.Time, error) {
	s = tzSuffix.ReplaceAllString(strings.TrimSpace(s), "")
	for _, layout := range refLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
