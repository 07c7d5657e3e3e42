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
	"fmt"
	"strings"
)

// Lines renders r as indented text, two spaces per level starting at one.
// Multi-line strings continue under the first line's text.
func Lines(r Report) []string {
	return appendLines(nil, r, 1)
}

func appendLines(out []string, r map[string]any, nest int) []string {
	tab := strings.Repeat("  ", nest)
	for _, key := range Report(r).Keys() {
		switch v := r[key].(type) {
		case Report:
			out = append(out, tab+key+":")
			out = appendLines(out, v, nest+1)
		case map[string]any:
			out = append(out, tab+key+":")
			out = appendLines(out, v, nest+1)
		case string:
			prefix := tab + key + ": "
			lines := strings.Split(v, "\n")
			out = append(out, prefix+lines[0])
			pad := strings.Repeat(" ", len(prefix))
			for _, l := range lines[1:] {
				out = append(out, pad+l)
			}
		default:
			out = append(out, tab+key+": "+FormatValue(v))
		}
	}
	return out
}

// FormatValue renders a scalar or set for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}
