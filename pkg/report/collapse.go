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

package report

import (
	"github.com/google/go-cmp/cmp"
)

// Collapse replaces a per-file report by a single entry keyed by pattern
// when every path in paths has a finding and all findings are equal.
// Otherwise r is returned unchanged.
func Collapse(r Report, paths []string, pattern string) Report {
	if len(r) == 0 || len(r) != len(paths) {
		return r
	}
	first, ok := r[paths[0]]
	if !ok {
		return r
	}
	for _, p := range paths[1:] {
		v, ok := r[p]
		if !ok || !cmp.Equal(first, v) {
			return r
		}
	}
	return Report{pattern: first}
}
