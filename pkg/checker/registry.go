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
	"strings"

	"github.com/NVIDIA/data-checker/pkg/report"
)

// Param declares one named argument of a check.
type Param struct {
	Name     string
	Required bool
	// Default is used when the configuration section omits the argument.
	Default any
	Doc     string
}

// Definition describes a check: its configuration section, arguments,
// template and how to run it.
type Definition struct {
	Name string
	// Params are the declared arguments, in documentation order.
	Params []Param
	// AcceptsExtra checks take the whole configuration section as their
	// expected values.
	AcceptsExtra bool
	// Template is the commented configuration example for the section.
	Template string
	Run      func(ctx context.Context, c *Checker, args Args) (report.Report, error)
}

// Param returns the declared argument with the given name.
func (d Definition) Param(name string) (Param, bool) {
	i := slices.IndexFunc(d.Params, func(p Param) bool { return p.Name == name })
	if i < 0 {
		return Param{}, false
	}
	return d.Params[i], true
}

var registry = []Definition{
	{
		Name: CheckCFCompliance,
		Params: []Param{
			{Name: "version", Doc: "CF version to check against (optional, default: infer from attributes)"},
		},
		Template: `[cf_compliance]
# Check CF compliance.
#
# Arguments:
#   * version: CF version to check against (optional, default: infer from attributes)
#
# Example:
version = 1.7
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			v, err := args.String("version")
			if err != nil {
				return nil, err
			}
			return c.CheckCFCompliance(ctx, v)
		},
	},
	{
		Name: CheckCompleteness,
		Params: []Param{
			{Name: "mask_variable", Doc: "name of the mask variable (optional)"},
			{Name: "mask_file", Doc: "path to file containing mask variable (optional)"},
			{Name: "variables", Doc: "variables to check (optional, default: all data variables)"},
			{Name: "ensure_null", Default: false, Doc: "ensure that masked values are null (optional, default: false)"},
		},
		Template: `[completeness]
# Check data completeness.
# If mask is not provided, ensure that all values are not null.
#
# Arguments:
#   * mask_variable: name of the mask variable (optional)
#   * mask_file: path to file containing mask variable (optional)
#   * variables: variables to check (optional, default: all data variables)
#   * ensure_null: ensure that masked values are null (optional, default: false)
#
# Example:
mask_variable = "mask_name"
mask_file = "path/to/file/with/mask"
variables = ["var1", "var2"]
ensure_null = true
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			var opts CompletenessOptions
			var err error
			if opts.MaskVariable, err = args.String("mask_variable"); err != nil {
				return nil, err
			}
			if opts.MaskFile, err = args.String("mask_file"); err != nil {
				return nil, err
			}
			if opts.Variables, err = args.Strings("variables"); err != nil {
				return nil, err
			}
			if opts.EnsureNull, err = args.Bool("ensure_null"); err != nil {
				return nil, err
			}
			return c.CheckCompleteness(ctx, opts)
		},
	},
	{
		Name: CheckFormat,
		Params: []Param{
			{Name: "version", Doc: "check specific version (optional)"},
		},
		Template: `[format]
# Check file format.
#
# Arguments:
#   * version: check specific version (optional)
#
# Example:
version = 2
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			v, err := args.String("version")
			if err != nil {
				return nil, err
			}
			return c.CheckFormat(ctx, v)
		},
	},
	{
		Name:         CheckGlobalAttributes,
		AcceptsExtra: true,
		Template: `[global_attributes]
# Check global attributes.
#
# Arguments are the attributes to check and their values.
# Use empty strings to ensure attributes exist without checking values.
#
# Example:
centre = "ecmf"
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			return c.CheckGlobalAttributes(ctx, args.Map())
		},
	},
	{
		Name:         CheckGlobalDimensions,
		AcceptsExtra: true,
		Template: `[global_dimensions]
# Check global dimensions.
#
# Arguments are the dimensions to check and their sizes.
# Use empty strings to ensure dimensions exist without checking sizes.
#
# Example:
latitude = 180
longitude = ""
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			return c.CheckGlobalDimensions(ctx, args.Map())
		},
	},
	{
		Name:         CheckHorizontalResolution,
		AcceptsExtra: true,
		Template: `[horizontal_resolution]
# Check horizontal resolution.
#
# Arguments are the grid attributes to check and their values.
# Attributes are inferred using ` + "`cdo griddes`" + `.
#
# Example:
gridtype = "lonlat"
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			return c.CheckHorizontalResolution(ctx, args.Map())
		},
	},
	{
		Name: CheckTemporalResolution,
		Params: []Param{
			{Name: "min", Doc: "first time (optional)"},
			{Name: "max", Doc: "last time (optional)"},
			{Name: "frequency", Doc: "time frequency (optional)"},
			{Name: "name", Default: "time", Doc: `name of time dimension (optional, default: "time")`},
		},
		Template: `[temporal_resolution]
# Check temporal resolution.
#
# Frequencies use pandas style aliases, e.g. "6h", "1D", "1MS", "QE-NOV", "YS".
#
# Arguments:
#   * min: first time (optional)
#   * max: last time (optional)
#   * frequency: time frequency (optional)
#   * name: name of time dimension (optional, default: "time")
#
# Example:
min = 1900-01-01
max = 1900-02-01
frequency = "1MS"
name = "time"
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			var opts TemporalOptions
			var err error
			if opts.Min, err = args.Time("min"); err != nil {
				return nil, err
			}
			if opts.Max, err = args.Time("max"); err != nil {
				return nil, err
			}
			if opts.Frequency, err = args.String("frequency"); err != nil {
				return nil, err
			}
			if opts.Name, err = args.String("name"); err != nil {
				return nil, err
			}
			return c.CheckTemporalResolution(ctx, opts)
		},
	},
	{
		Name:         CheckVariableAttributes,
		AcceptsExtra: true,
		Template: `[variable_attributes.var_name1]
# Check attributes of a specific variable.
#
# Repeat for each variable.
# Arguments are the attributes to check and their values.
# Use empty strings to ensure attributes exist without checking values.
#
# Example 1:
units = "K"
name = ""

[variable_attributes.var_name2]
# Example 2:
units = "m"
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			sections, err := args.Sections()
			if err != nil {
				return nil, err
			}
			return c.CheckVariableAttributes(ctx, sections)
		},
	},
	{
		Name:         CheckVariableDimensions,
		AcceptsExtra: true,
		Template: `[variable_dimensions.var_name1]
# Check variable dimensions.
#
# Repeat for each variable.
# Arguments are the dimensions to check and their sizes.
# Use empty strings to ensure dimensions exist without checking sizes.
#
# Example 1:
latitude = 180
longitude = ""

[variable_dimensions.var_name2]
# Example 2:
time = 10
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			sections, err := args.Sections()
			if err != nil {
				return nil, err
			}
			return c.CheckVariableDimensions(ctx, sections)
		},
	},
	{
		Name:         CheckVerticalResolution,
		AcceptsExtra: true,
		Template: `[vertical_resolution]
# Check vertical resolution.
#
# Arguments are the vertical axis attributes to check and their values.
# Attributes are inferred using ` + "`cdo zaxisdes`" + `.
#
# Example:
zaxistype = "surface"
`,
		Run: func(ctx context.Context, c *Checker, args Args) (report.Report, error) {
			return c.CheckVerticalResolution(ctx, args.Map())
		},
	},
}

// Definitions returns every check sorted by name.
func Definitions() []Definition {
	out := slices.Clone(registry)
	slices.SortFunc(out, func(a, b Definition) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the check names sorted.
func Names() []string {
	defs := Definitions()
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}

// Lookup returns the definition of a check.
func Lookup(name string) (Definition, bool) {
	i := slices.IndexFunc(registry, func(d Definition) bool { return d.Name == name })
	if i < 0 {
		return Definition{}, false
	}
	return registry[i], true
}
