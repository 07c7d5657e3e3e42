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

package checker

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/format"
	"github.com/NVIDIA/data-checker/pkg/report"
	"github.com/NVIDIA/data-checker/pkg/timeaxis"
)

// TemporalOptions configures CheckTemporalResolution. Nil bounds and an
// empty frequency are not checked.
type TemporalOptions struct {
	Min       *time.Time
	Max       *time.Time
	Frequency string
	// Name of the time coordinate, "time" when empty.
	Name string
}

// CheckTemporalResolution concatenates the time coordinate of every file and
// checks its bounds and sampling frequency. Findings are keyed "min", "max"
// and "frequency"; the latter holds the distinct steps found.
func (c *Checker) CheckTemporalResolution(ctx context.Context, opts TemporalOptions) (report.Report, error) {
	name := opts.Name
	if name == "" {
		name = defaults.TimeCoordinate
	}

	var freq *timeaxis.Frequency
	if opts.Frequency != "" {
		f, err := timeaxis.ParseFrequency(opts.Frequency)
		if err != nil {
			return nil, err
		}
		freq = &f
	}

	var (
		mu    sync.Mutex
		times []time.Time
	)
	err := c.forEach(ctx, CheckTemporalResolution, func(ctx context.Context, path string, r format.Reader) error {
		decoded, err := readTimes(ctx, path, r, name)
		if err != nil {
			return err
		}
		mu.Lock()
		times = append(times, decoded...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "time coordinate is empty",
			map[string]any{"name": name, "pattern": c.Pattern()})
	}
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })

	first, last := times[0], times[len(times)-1]
	rep := report.Report{}
	if opts.Min != nil && !first.Equal(*opts.Min) {
		rep["min"] = timeaxis.Format(first)
	}
	if opts.Max != nil && !last.Equal(*opts.Max) {
		rep["max"] = timeaxis.Format(last)
	}
	if freq != nil {
		expected := freq.Range(first, last)
		if !slices.EqualFunc(times, expected, time.Time.Equal) {
			rep["frequency"] = steps(times)
		}
	}
	recordFindings(CheckTemporalResolution, len(rep))
	return rep, nil
}

func readTimes(ctx context.Context, path string, r format.Reader, name string) ([]time.Time, error) {
	ds, err := r.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := ds.Variable(name)
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "time coordinate not found",
			map[string]any{"name": name, "path": path})
	}
	values, err := ds.Values(ctx, name)
	if err != nil {
		return nil, err
	}
	units, _ := v.Attrs["units"].(string)
	calendar, _ := v.Attrs["calendar"].(string)
	decoded, err := timeaxis.Decode(values, units, calendar)
	if err != nil {
		code := errors.CodeOf(err)
		if code == "" {
			code = errors.ErrCodeInvalidRequest
		}
		return nil, errors.WrapWithContext(code, "failed to decode time coordinate", err,
			map[string]any{"name": name, "path": path})
	}
	return decoded, nil
}

// steps returns the distinct differences between consecutive times.
func steps(times []time.Time) []string {
	out := make([]string, 0, len(times))
	for i := 1; i < len(times); i++ {
		out = append(out, times[i].Sub(times[i-1]).String())
	}
	return report.Set(out...)
}
