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

// Package dataset holds the in-memory description of one gridded data file:
// dimensions, variables, attributes and lazily loaded values.
//
// Values are float64 in row-major order. Null (fill or missing) positions
// are NaN, so completeness checks reduce to NaN tests.
package dataset

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

// Attributes maps attribute names to decoded values: string, int64,
// float64 or []any for multi-valued attributes.
type Attributes map[string]any

// Clone returns a shallow copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Dimension is a named axis.
type Dimension struct {
	Name      string `json:"name" yaml:"name"`
	Size      int    `json:"size" yaml:"size"`
	Unlimited bool   `json:"unlimited,omitempty" yaml:"unlimited,omitempty"`
}

// Variable describes an array stored in the file.
type Variable struct {
	Name  string     `json:"name" yaml:"name"`
	Type  string     `json:"type" yaml:"type"`
	Dims  []string   `json:"dims" yaml:"dims"`
	Shape []int      `json:"shape" yaml:"shape"`
	Attrs Attributes `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Len returns the number of elements. Scalars have one.
func (v *Variable) Len() int {
	n := 1
	for _, s := range v.Shape {
		n *= s
	}
	return n
}

// Loader reads the values of one variable.
type Loader interface {
	Load(ctx context.Context, name string) ([]float64, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, name string) ([]float64, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, name string) ([]float64, error) {
	return f(ctx, name)
}

// Dataset is the decoded header of a file plus a value loader.
type Dataset struct {
	Dims      []Dimension
	Variables []*Variable
	Attrs     Attributes

	loader Loader
	mu     sync.Mutex
	values map[string][]float64
}

// New returns an empty dataset reading values through loader. A nil loader
// means values must be supplied with SetValues.
func New(loader Loader) *Dataset {
	return &Dataset{
		Attrs:  Attributes{},
		loader: loader,
		values: map[string][]float64{},
	}
}

// SetLoader replaces the value loader.
func (d *Dataset) SetLoader(l Loader) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loader = l
}

// AddDimension appends a dimension.
func (d *Dataset) AddDimension(name string, size int, unlimited bool) {
	d.Dims = append(d.Dims, Dimension{Name: name, Size: size, Unlimited: unlimited})
}

// AddVariable appends a variable, deriving its shape from the dimensions
// already declared.
func (d *Dataset) AddVariable(name, typ string, dims []string, attrs Attributes) (*Variable, error) {
	sizes := d.Sizes()
	shape := make([]int, 0, len(dims))
	for _, dim := range dims {
		s, ok := sizes[dim]
		if !ok {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "variable uses undeclared dimension",
				map[string]any{"variable": name, "dimension": dim})
		}
		shape = append(shape, s)
	}
	if attrs == nil {
		attrs = Attributes{}
	}
	v := &Variable{Name: name, Type: typ, Dims: dims, Shape: shape, Attrs: attrs}
	d.Variables = append(d.Variables, v)
	return v, nil
}

// Variable looks up a variable by name.
func (d *Dataset) Variable(name string) (*Variable, bool) {
	for _, v := range d.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// Sizes maps dimension names to sizes.
func (d *Dataset) Sizes() map[string]int {
	out := make(map[string]int, len(d.Dims))
	for _, dim := range d.Dims {
		out[dim.Name] = dim.Size
	}
	return out
}

// VariableAttrs maps every variable to its attributes.
func (d *Dataset) VariableAttrs() map[string]Attributes {
	out := make(map[string]Attributes, len(d.Variables))
	for _, v := range d.Variables {
		out[v.Name] = v.Attrs
	}
	return out
}

// VariableSizes maps every variable to its dimension sizes.
func (d *Dataset) VariableSizes() map[string]map[string]int {
	out := make(map[string]map[string]int, len(d.Variables))
	for _, v := range d.Variables {
		sizes := make(map[string]int, len(v.Dims))
		for i, dim := range v.Dims {
			sizes[dim] = v.Shape[i]
		}
		out[v.Name] = sizes
	}
	return out
}

// Coordinates returns the names of coordinate variables: those named after
// a dimension and those listed in any "coordinates" attribute.
func (d *Dataset) Coordinates() []string {
	set := map[string]struct{}{}
	dims := d.Sizes()
	for _, v := range d.Variables {
		if _, ok := dims[v.Name]; ok {
			set[v.Name] = struct{}{}
		}
		if coords, ok := v.Attrs["coordinates"].(string); ok {
			for _, c := range strings.Fields(coords) {
				set[c] = struct{}{}
			}
		}
	}
	if coords, ok := d.Attrs["coordinates"].(string); ok {
		for _, c := range strings.Fields(coords) {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for _, v := range d.Variables {
		if _, ok := set[v.Name]; ok {
			out = append(out, v.Name)
		}
	}
	return out
}

// DataVars returns the non-coordinate variables in declaration order.
func (d *Dataset) DataVars() []string {
	coords := d.Coordinates()
	var out []string
	for _, v := range d.Variables {
		if !slices.Contains(coords, v.Name) {
			out = append(out, v.Name)
		}
	}
	return out
}

// SetValues stores values for a variable, bypassing the loader.
func (d *Dataset) SetValues(name string, values []float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[name] = values
}

// Values returns the values of a variable, loading and caching them on first use.
func (d *Dataset) Values(ctx context.Context, name string) ([]float64, error) {
	v, ok := d.Variable(name)
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "variable not found",
			map[string]any{"variable": name})
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if vals, ok := d.values[name]; ok {
		return vals, nil
	}
	if d.loader == nil {
		return nil, errors.NewWithContext(errors.ErrCodeInternal, "no values available",
			map[string]any{"variable": name})
	}

	vals, err := d.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(vals) != v.Len() {
		return nil, errors.NewWithContext(errors.ErrCodeInternal,
			fmt.Sprintf("loaded %d values, expected %d", len(vals), v.Len()),
			map[string]any{"variable": name})
	}
	d.values[name] = vals
	return vals, nil
}

// Array returns the values of a variable together with its dims and shape.
func (d *Dataset) Array(ctx context.Context, name string) (Array, error) {
	vals, err := d.Values(ctx, name)
	if err != nil {
		return Array{}, err
	}
	v, _ := d.Variable(name)
	return Array{Dims: v.Dims, Shape: v.Shape, Values: vals}, nil
}

// IsNull reports whether a value marks a missing element.
func IsNull(v float64) bool {
	return math.IsNaN(v)
}
