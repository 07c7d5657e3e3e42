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

// Package config loads check configuration documents.
//
// A document names the files to check and how to read them, followed by
// one optional section per check:
//
//	files_pattern = "path/to/files/*.grib"
//	files_format = "GRIB"
//
//	[format]
//	version = 2
//
// TOML is the native format; YAML and JSON documents with the same
// structure are accepted, selected by file extension.
package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/format"
	"github.com/NVIDIA/data-checker/pkg/serializer"
)

// Keys every document must set.
const (
	KeyFilesPattern = "files_pattern"
	KeyFilesFormat  = "files_format"
)

// Document is a loaded configuration. It is read-only after Load.
type Document struct {
	// Path of the file the document was loaded from, empty for Parse.
	Path         string
	FilesPattern string
	FilesFormat  format.Kind

	sections map[string]any
}

// Load reads the document at path, with the format chosen by extension.
func Load(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "configuration file not found", err,
			map[string]any{"path": path})
	}
	raw, err := serializer.FromFile[map[string]any](path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load configuration file", err,
			map[string]any{"path": path})
	}
	doc, err := New(*raw)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// New builds a document from decoded values.
func New(raw map[string]any) (*Document, error) {
	doc := &Document{sections: map[string]any{}}
	for key, value := range raw {
		doc.sections[key] = normalize(value)
	}

	pattern, err := doc.requiredString(KeyFilesPattern)
	if err != nil {
		return nil, err
	}
	kindName, err := doc.requiredString(KeyFilesFormat)
	if err != nil {
		return nil, err
	}
	kind, err := format.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	doc.FilesPattern = pattern
	doc.FilesFormat = kind
	delete(doc.sections, KeyFilesPattern)
	delete(doc.sections, KeyFilesFormat)
	return doc, nil
}

func (d *Document) requiredString(key string) (string, error) {
	v, ok := d.sections[key]
	if !ok {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("configuration is missing %q", key), map[string]any{"key": key})
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("configuration key %q must be a non-empty string", key), map[string]any{"key": key})
	}
	return s, nil
}

// Has reports whether the document has a section called name.
func (d *Document) Has(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// Section returns the values of a section, or nil when absent.
func (d *Document) Section(name string) (map[string]any, error) {
	v, ok := d.sections[name]
	if !ok {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("configuration key %q must be a table", name), map[string]any{"key": name})
	}
	return maps.Clone(m), nil
}

// Sections returns the names of all sections in sorted order.
func (d *Document) Sections() []string {
	return slices.Sorted(maps.Keys(d.sections))
}

// normalize converts TOML local date and time values to time.Time and
// recurses into tables and arrays.
func normalize(v any) any {
	switch t := v.(type) {
	case toml.LocalDate:
		return t.AsTime(time.UTC)
	case toml.LocalDateTime:
		return t.AsTime(time.UTC)
	case toml.LocalTime:
		return t.String()
	case time.Time:
		return t.UTC()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
