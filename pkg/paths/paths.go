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

// Package paths resolves a files pattern into the ordered list of files a
// check iterates over.
package paths

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

// Resolve expands a glob pattern into a sorted, deduplicated list of paths.
// A pattern that matches nothing yields an ErrCodeNoMatch error.
func Resolve(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			"invalid files pattern", err, map[string]any{"pattern": pattern})
	}
	if len(matches) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeNoMatch,
			"no match for files pattern", map[string]any{"pattern": pattern})
	}
	slices.Sort(matches)
	return slices.Compact(matches), nil
}

// Resolver memoizes the result of Resolve for one pattern.
type Resolver struct {
	pattern string
	once    sync.Once
	paths   []string
	err     error
}

// NewResolver returns a Resolver for pattern. Nothing is read until Paths is called.
func NewResolver(pattern string) *Resolver {
	return &Resolver{pattern: pattern}
}

// Pattern returns the glob pattern.
func (r *Resolver) Pattern() string {
	return r.pattern
}

// Paths returns the matched files, resolving them on first use. The returned
// slice is a copy.
func (r *Resolver) Paths() ([]string, error) {
	r.once.Do(func() {
		r.paths, r.err = Resolve(r.pattern)
	})
	if r.err != nil {
		return nil, r.err
	}
	return slices.Clone(r.paths), nil
}
