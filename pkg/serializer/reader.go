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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/data-checker/pkg/errors"
)

// decodeFunc decodes one document from r into v.
type decodeFunc func(r io.Reader, v any, strict bool) error

var decoders = map[Format]decodeFunc{
	FormatJSON: func(r io.Reader, v any, strict bool) error {
		d := json.NewDecoder(r)
		if strict {
			d.DisallowUnknownFields()
		}
		return d.Decode(v)
	},
	FormatYAML: func(r io.Reader, v any, strict bool) error {
		d := yaml.NewDecoder(r)
		d.KnownFields(strict)
		return d.Decode(v)
	},
	FormatTOML: func(r io.Reader, v any, strict bool) error {
		d := toml.NewDecoder(r)
		if strict {
			d.DisallowUnknownFields()
		}
		return d.Decode(v)
	},
}

// Reader decodes configuration documents.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
	strict bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStrict rejects keys that do not map onto a struct field.
// Decoding into maps is unaffected.
func WithStrict(strict bool) ReaderOption {
	return func(r *Reader) {
		r.strict = strict
	}
}

func checkReadable(format Format) error {
	if _, ok := decoders[format]; !ok {
		return errors.New(errors.ErrCodeUnsupported,
			fmt.Sprintf("format %q cannot be read, use one of json, yaml, toml", format))
	}
	return nil
}

// NewReader returns a Reader over input. If input is an io.Closer it is
// closed by Close.
func NewReader(format Format, input io.Reader, opts ...ReaderOption) (*Reader, error) {
	if err := checkReadable(format); err != nil {
		return nil, err
	}
	r := &Reader{format: format, input: input}
	if c, ok := input.(io.Closer); ok {
		r.closer = c
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewFileReader opens path and returns a Reader over it.
func NewFileReader(format Format, path string, opts ...ReaderOption) (*Reader, error) {
	if err := checkReadable(format); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		code := errors.ErrCodeInternal
		if os.IsNotExist(err) {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, "failed to open document", err,
			map[string]any{"path": path})
	}
	return NewReader(format, f, opts...)
}

// Deserialize decodes the next document into v, which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil || r.input == nil {
		return errors.New(errors.ErrCodeInternal, "reader has no input")
	}
	if err := decoders[r.format](r.input, v, r.strict); err != nil {
		return fmt.Errorf("failed to decode %s: %w", r.format, err)
	}
	return nil
}

// Close releases the underlying file, if any. It is safe to call Close
// more than once.
func (r *Reader) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c.Close()
}

// FromFile decodes the document at path into a new T, choosing the format
// from the file extension.
//
//	raw, err := FromFile[map[string]any]("checks.toml")
func FromFile[T any](path string, opts ...ReaderOption) (*T, error) {
	format := FormatFromPath(path)
	r, err := NewFileReader(format, path, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			slog.Warn("failed to close document", "path", path, "error", cerr)
		}
	}()

	var out T
	if err := r.Deserialize(&out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("document loaded", "path", path, "format", format)
	return &out, nil
}
