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
	"fmt"
	"maps"
	"time"

	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/timeaxis"
	"github.com/NVIDIA/data-checker/pkg/version"
)

// Args are the values of one configuration section.
type Args map[string]any

func invalidArg(name string, value any, want string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("argument %q must be %s, got %T", name, want, value),
		map[string]any{"argument": name})
}

// Has reports whether the argument is set to a non-nil value.
func (a Args) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns a scalar argument as a string. Numbers are formatted
// without exponent, so version = 1.7 yields "1.7".
func (a Args) String(name string) (string, error) {
	v := a[name]
	if b, ok := v.(bool); ok {
		return "", invalidArg(name, b, "a string or a number")
	}
	s, err := version.FromValue(v)
	if err != nil {
		return "", invalidArg(name, v, "a string or a number")
	}
	return s, nil
}

// Bool returns a boolean argument, false when unset.
func (a Args) Bool(name string) (bool, error) {
	switch v := a[name].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, invalidArg(name, v, "a boolean")
	}
}

// Strings returns a list of strings. A single string is a list of one.
// An unset argument is nil; an explicit empty list is empty and non-nil.
func (a Args) Strings(name string) ([]string, error) {
	switch v := a[name].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		if v == nil {
			return []string{}, nil
		}
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalidArg(name, item, "a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, invalidArg(name, v, "a list of strings")
	}
}

// Time returns a timestamp argument, nil when unset. Strings are parsed as
// dates or date-times.
func (a Args) Time(name string) (*time.Time, error) {
	switch v := a[name].(type) {
	case nil:
		return nil, nil
	case time.Time:
		t := v.UTC()
		return &t, nil
	case string:
		t, err := timeaxis.ParseTime(v)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid time argument", err,
				map[string]any{"argument": name})
		}
		return &t, nil
	default:
		return nil, invalidArg(name, v, "a date or a date-time")
	}
}

// Sections returns nested tables keyed by name, such as one table per
// variable.
func (a Args) Sections() (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(a))
	for name, v := range a {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, invalidArg(name, v, "a table")
		}
		out[name] = m
	}
	return out, nil
}

// Map returns a copy of the arguments.
func (a Args) Map() map[string]any {
	return maps.Clone(map[string]any(a))
}
