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

	"github.com/NVIDIA/data-checker/pkg/dataset"
	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/format"
	"github.com/NVIDIA/data-checker/pkg/report"
)

// CompletenessOptions configures CheckCompleteness.
type CompletenessOptions struct {
	// MaskVariable names the mask. It is read from MaskFile when set,
	// otherwise from each checked file.
	MaskVariable string
	MaskFile     string
	// Variables to check. Nil means every data variable, or with a mask
	// every data variable spanning the mask dimensions. An empty non-nil
	// list checks nothing.
	Variables []string
	// EnsureNull requires values outside the mask to be null.
	EnsureNull bool
}

// CheckCompleteness reports, per file, the variables with unexpected nulls.
// Without a mask no value may be null. With a mask, values where the mask is
// non-zero must not be null, and values where it is zero or null must be
// null if EnsureNull is set.
func (c *Checker) CheckCompleteness(ctx context.Context, opts CompletenessOptions) (report.Report, error) {
	var shared *dataset.Array
	if opts.MaskFile != "" {
		if opts.MaskVariable == "" {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"please provide mask_variable along with mask_file",
				map[string]any{"mask_file": opts.MaskFile})
		}
		mask, err := c.loadMask(ctx, opts.MaskFile, opts.MaskVariable)
		if err != nil {
			return nil, err
		}
		shared = &mask
	}

	return c.collect(ctx, CheckCompleteness, func(ctx context.Context, path string, r format.Reader, b *report.Builder) error {
		ds, err := r.Dataset(ctx)
		if err != nil {
			return err
		}

		mask := shared
		if mask == nil && opts.MaskVariable != "" {
			m, err := maskFrom(ctx, ds, opts.MaskVariable)
			if err != nil {
				return err
			}
			mask = &m
		}

		names := opts.Variables
		if names == nil {
			names = defaultVariables(ds, mask, opts.MaskVariable)
		}

		var failing []string
		for _, name := range names {
			arr, err := ds.Array(ctx, name)
			if err != nil {
				return err
			}
			ok, err := complete(arr, mask, opts.EnsureNull)
			if err != nil {
				return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "mask does not match variable", err,
					map[string]any{"path": path, "variable": name})
			}
			if !ok {
				failing = append(failing, name)
			}
		}
		if len(failing) > 0 {
			b.Set(report.Set(failing...), path)
		}
		return nil
	})
}

func (c *Checker) loadMask(ctx context.Context, path, name string) (dataset.Array, error) {
	r, err := c.open(path)
	if err != nil {
		return dataset.Array{}, err
	}
	defer closeReader(path, r)

	ds, err := r.Dataset(ctx)
	if err != nil {
		return dataset.Array{}, err
	}
	return maskFrom(ctx, ds, name)
}

// maskFrom reads a mask variable with nulls replaced by zero.
func maskFrom(ctx context.Context, ds *dataset.Dataset, name string) (dataset.Array, error) {
	arr, err := ds.Array(ctx, name)
	if err != nil {
		return dataset.Array{}, err
	}
	values := make([]float64, len(arr.Values))
	for i, v := range arr.Values {
		if !dataset.IsNull(v) {
			values[i] = v
		}
	}
	arr.Values = values
	return arr, nil
}

func defaultVariables(ds *dataset.Dataset, mask *dataset.Array, maskName string) []string {
	vars := ds.DataVars()
	if mask == nil {
		return vars
	}
	out := make([]string, 0, len(vars))
	for _, name := range vars {
		if name == maskName {
			continue
		}
		v, _ := ds.Variable(name)
		if (dataset.Array{Dims: v.Dims}).HasDims(mask.Dims) {
			out = append(out, name)
		}
	}
	return out
}

func complete(arr dataset.Array, mask *dataset.Array, ensureNull bool) (bool, error) {
	if mask == nil {
		return !slices.ContainsFunc(arr.Values, dataset.IsNull), nil
	}
	return dataset.All(*mask, arr, func(m, v float64) bool {
		if m != 0 {
			return !dataset.IsNull(v)
		}
		return !ensureNull || dataset.IsNull(v)
	})
}
