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

package serializer

import (
	"context"
	"log/slog"
	"strings"
)

// Format represents the serialization format.
type Format string

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML with two space indentation.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML, only supported for reading.
	FormatTOML Format = "toml"
	// FormatTable renders a Tabler, or a flattened FIELD/VALUE table, only supported for writing.
	FormatTable Format = "table"
	// FormatText is the human-readable rendering of a Texter, only supported for writing.
	FormatText Format = "text"
)

// IsUnknown reports whether f is not one of the defined formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML, FormatTable, FormatText:
		return false
	default:
		return true
	}
}

// CanRead reports whether documents in format f can be deserialized.
func (f Format) CanRead() bool {
	return f == FormatJSON || f == FormatYAML || f == FormatTOML
}

// CanWrite reports whether values can be serialized in format f.
func (f Format) CanWrite() bool {
	return f == FormatJSON || f == FormatYAML || f == FormatTable || f == FormatText
}

// SupportedFormats returns the output formats accepted by writers.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
		string(FormatText),
	}
}

// FormatFromPath determines the format from a file extension:
//   - .toml → FormatTOML
//   - .json → FormatJSON
//   - .yaml, .yml → FormatYAML
//   - .table → FormatTable
//   - .txt → FormatText
//
// Unknown extensions default to FormatTOML, the configuration file format.
// Extension matching is case-insensitive.
func FormatFromPath(filePath string) Format {
	lowerPath := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lowerPath, ".toml"):
		return FormatTOML
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lowerPath, ".table"):
		return FormatTable
	case strings.HasSuffix(lowerPath, ".txt"):
		return FormatText
	default:
		slog.Debug("unknown file extension, defaulting to TOML", "filePath", filePath)
		return FormatTOML
	}
}

// Serializer writes a value to some destination.
//
// The context parameter is used for cancellation and timeouts.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is an optional interface that Serializers can implement
// if they need to release resources (e.g., close file handles).
type Closer interface {
	Close() error
}

// Texter is implemented by values with their own human-readable rendering.
type Texter interface {
	Text() string
}

// Tabler is implemented by values with their own table layout. Footer may
// be empty.
type Tabler interface {
	TableRows() (header []string, rows [][]string, footer []string)
}
