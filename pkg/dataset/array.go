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

package dataset

import (
	"fmt"
	"slices"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

// Array is a named-dimension array in row-major order.
type Array struct {
	Dims   []string
	Shape  []int
	Values []float64
}

// HasDims reports whether every dimension in dims is one of the array's.
func (a Array) HasDims(dims []string) bool {
	for _, d := range dims {
		if !slices.Contains(a.Dims, d) {
			return false
		}
	}
	return true
}

func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

// All broadcasts a and b by dimension name over the union of their dims and
// reports whether pred holds at every position. Shared dimensions must have
// equal sizes.
func All(a, b Array, pred func(av, bv float64) bool) (bool, error) {
	dims := slices.Clone(a.Dims)
	shape := slices.Clone(a.Shape)
	for i, d := range b.Dims {
		j := slices.Index(dims, d)
		if j < 0 {
			dims = append(dims, d)
			shape = append(shape, b.Shape[i])
			continue
		}
		if shape[j] != b.Shape[i] {
			return false, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("dimension %q has size %d and %d", d, shape[j], b.Shape[i]),
				map[string]any{"dimension": d})
		}
	}

	// stride of each union dim inside a and b; zero when absent
	aStr, bStr := strides(a.Shape), strides(b.Shape)
	as := make([]int, len(dims))
	bs := make([]int, len(dims))
	for i, d := range dims {
		if j := slices.Index(a.Dims, d); j >= 0 {
			as[i] = aStr[j]
		}
		if j := slices.Index(b.Dims, d); j >= 0 {
			bs[i] = bStr[j]
		}
	}

	total := 1
	for _, s := range shape {
		total *= s
	}
	if total == 0 {
		return true, nil
	}

	idx := make([]int, len(dims))
	ai, bi := 0, 0
	for n := 0; n < total; n++ {
		if !pred(a.Values[ai], b.Values[bi]) {
			return false, nil
		}
		// odometer increment, last dimension fastest
		for k := len(dims) - 1; k >= 0; k-- {
			idx[k]++
			ai += as[k]
			bi += bs[k]
			if idx[k] < shape[k] {
				break
			}
			ai -= as[k] * shape[k]
			bi -= bs[k] * shape[k]
			idx[k] = 0
		}
	}
	return true, nil
}
