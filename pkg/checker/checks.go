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
	"strconv"
	"strings"

	"github.com/NVIDIA/data-checker/pkg/cdo"
	"github.com/NVIDIA/data-checker/pkg/format"
	"github.com/NVIDIA/data-checker/pkg/report"
	"github.com/NVIDIA/data-checker/pkg/version"
)

// Check names.
const (
	CheckFormat               = "format"
	CheckGlobalAttributes     = "global_attributes"
	CheckGlobalDimensions     = "global_dimensions"
	CheckVariableAttributes   = "variable_attributes"
	CheckVariableDimensions   = "variable_dimensions"
	CheckTemporalResolution   = "temporal_resolution"
	CheckCompleteness         = "completeness"
	CheckHorizontalResolution = "horizontal_resolution"
	CheckVerticalResolution   = "vertical_resolution"
	CheckCFCompliance         = "cf_compliance"
)

// CheckFormat reports files whose full format does not start with the
// checker's kind followed by ver. An empty ver only checks the kind.
func (c *Checker) CheckFormat(ctx context.Context, ver string) (report.Report, error) {
	prefix := string(c.kind) + ver
	return c.collect(ctx, CheckFormat, func(ctx context.Context, path string, r format.Reader, b *report.Builder) error {
		full, err := r.FullFormat(ctx)
		if err != nil {
			return err
		}
		if !strings.HasPrefix(full, prefix) {
			b.Set(full, path)
		}
		return nil
	})
}

// CheckGlobalAttributes compares global attributes. Empty expected values
// only require the attribute to exist.
func (c *Checker) CheckGlobalAttributes(ctx context.Context, expected map[string]any) (report.Report, error) {
	return c.collect(ctx, CheckGlobalAttributes, func(ctx context.Context, path string, r format.Reader, b *report.Builder) error {
		attrs, err := r.GlobalAttrs(ctx)
		if err != nil {
			return err
		}
		b.SetIfAny(report.CompareAttributes(expected, attrs, false), path)
		return nil
	})
}

// CheckGlobalDimensions compares dimension sizes.
func (c *Checker) CheckGlobalDimensions(ctx context.Context, expected map[string]any) (report.Report, error) {
	return c.collect(ctx, CheckGlobalDimensions, func(ctx context.Context, path string, r format.Reader, b *report.Builder) error {
		sizes, err := r.GlobalSizes(ctx)
		if err != nil {
			return err
		}
		b.SetIfAny(report.CompareAttributes(expected, report.Ints(sizes), false), path)
		return nil
	})
}

// CheckVariableAttributes compares the attributes of each expected variable.
// A missing variable is reported as nil.
func (c *Checker) CheckVariableAttributes(ctx context.Context, expected map[string]map[string]any) (report.Report, error) {
	return c.collect(ctx, CheckVariableAttributes, func(ctx context.Context, path string, r format.Reader, b *report.Builder) error {
		actual, err := r.VariableAttrs(ctx)
		if err != nil {
			return err
		}
		for name, want := range expected {
			attrs, ok := actual[name]
			if !ok {
				b.Set(nil, path, name)
				continue
			}
			b.SetIfAny(report.CompareAttributes(want, attrs, false), path, name)
		}
		return nil
	})
}

// CheckVariableDimensions compares the dimension sizes of each expected variable.
func (c *Checker) CheckVariableDimensions(ctx context.Context, expected map[string]map[string]any) (report.Report, error) {
	return c.collect(ctx, CheckVariableDimensions, func(ctx context.Context, path string, r format.Reader, b *report.Builder) error {
		actual, err := r.VariableSizes(ctx)
		if err != nil {
			return err
		}
		for name, want := range expected {
			sizes, ok := actual[name]
			if !ok {
				b.Set(nil, path, name)
				continue
			}
			b.SetIfAny(report.CompareAttributes(want, report.Ints(sizes), false), path, name)
		}
		return nil
	})
}

// CheckHorizontalResolution compares the cdo grid description.
func (c *Checker) CheckHorizontalResolution(ctx context.Context, expected map[string]any) (report.Report, error) {
	return c.checkDescription(ctx, CheckHorizontalResolution, cdo.GridDescription, expected)
}

// CheckVerticalResolution compares the cdo vertical axis description.
func (c *Checker) CheckVerticalResolution(ctx context.Context, expected map[string]any) (report.Report, error) {
	return c.checkDescription(ctx, CheckVerticalResolution, cdo.ZAxisDescription, expected)
}

func (c *Checker) checkDescription(ctx context.Context, check, desType string, expected map[string]any) (report.Report, error) {
	want := make(map[string]any, len(expected))
	for k, v := range expected {
		want[k] = stringify(v)
	}
	return c.collect(ctx, check, func(ctx context.Context, path string, r format.Reader, b *report.Builder) error {
		desc, err := c.describer.Describe(ctx, path, desType)
		if err != nil {
			return err
		}
		b.SetIfAny(report.CompareAttributes(want, report.Strings(desc), true), path)
		return nil
	})
}

// stringify renders a configured value the way cdo prints it.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	if s, err := version.FromValue(v); err == nil {
		return s
	}
	return report.FormatValue(v)
}
