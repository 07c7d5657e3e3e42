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

// Package report models validation findings.
//
// A Report is a nested map. Keys are file paths (or a files pattern after
// collapsing) and, below them, attribute, dimension or variable names.
// Values are one of:
//
//   - nil: an expected key is missing
//   - a scalar: the actual value that differs from the expected one
//   - a string, possibly multi-line: a diagnostic message
//   - a sorted []string: a set, such as failing variables
//   - a nested Report
//
// An empty Report means the check passed. Builders only insert entries when
// a finding exists and prune empty nested maps before returning.
package report

import (
	"slices"
	"sync"
)

// Report is a nested validation finding map.
type Report map[string]any

// IsEmpty reports whether there are no findings.
func (r Report) IsEmpty() bool {
	return len(r) == 0
}

// Keys returns the top level keys in sorted order.
func (r Report) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Set returns a sorted, deduplicated copy of items, suitable as a set value.
func Set(items ...string) []string {
	out := slices.Clone(items)
	slices.Sort(out)
	return slices.Compact(out)
}

// Prune returns a copy of r without empty nested maps, recursively. Nil
// values are kept since they record missing keys.
func Prune(r Report) Report {
	out := Report{}
	for k, v := range r {
		switch sub := v.(type) {
		case Report:
			if p := Prune(sub); len(p) > 0 {
				out[k] = p
			}
		case map[string]any:
			if p := Prune(sub); len(p) > 0 {
				out[k] = p
			}
		default:
			out[k] = v
		}
	}
	return out
}

// Builder accumulates findings. It is safe for concurrent use.
type Builder struct {
	mu   sync.Mutex
	root Report
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{root: Report{}}
}

// Set stores value under the key path, creating intermediate maps.
func (b *Builder) Set(value any, keys ...string) {
	if len(keys) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	node := b.root
	for _, k := range keys[:len(keys)-1] {
		next, ok := node[k].(Report)
		if !ok {
			next = Report{}
			node[k] = next
		}
		node = next
	}
	node[keys[len(keys)-1]] = value
}

// SetIfAny stores sub under the key path only when it holds findings.
func (b *Builder) SetIfAny(sub Report, keys ...string) {
	if p := Prune(sub); len(p) > 0 {
		b.Set(p, keys...)
	}
}

// Report returns the pruned findings.
func (b *Builder) Report() Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Prune(b.root)
}
