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

package cdo

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

const (
	lineDelimiter = "\n"
	kvDelimiter   = "="
	trimChars     = `'"`
	// MaxDescriptionSize is the largest accepted description in bytes.
	MaxDescriptionSize = 16 << 20
)

// Parser splits description text into key/value entries. Lines starting
// with '#' are ignored and quotes are removed.
type Parser struct {
	maxSize int
}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{maxSize: MaxDescriptionSize}
}

// Entries returns "key=value" strings in input order. Lines without the
// delimiter, such as continuation rows of coordinate lists, are dropped.
func (p *Parser) Entries(b []byte) ([]string, error) {
	if len(b) > p.maxSize {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "description too large",
			map[string]any{"size": len(b), "max": p.maxSize})
	}
	if !utf8.Valid(b) {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "description is not valid UTF-8")
	}

	var out []string
	for _, line := range strings.Split(string(b), lineDelimiter) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, ok := strings.Cut(strip(trimmed), kvDelimiter)
		if !ok {
			slog.Debug("skipping description line without value", "line", trimmed)
			continue
		}
		out = append(out, strings.TrimSpace(key)+kvDelimiter+strings.TrimSpace(value))
	}
	return out, nil
}

// Map parses b into a map. Repeated keys keep the last value.
func (p *Parser) Map(b []byte) (map[string]string, error) {
	entries, err := p.Entries(b)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, _ := strings.Cut(e, kvDelimiter)
		result[k] = v
	}
	return result, nil
}

func strip(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(trimChars, r) {
			return -1
		}
		return r
	}, s)
}
