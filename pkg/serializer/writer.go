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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Writer encodes run documents.
// Close must be called when the Writer was created for a file.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

func writableOrJSON(format Format) Format {
	if !format.CanWrite() {
		slog.Warn("unsupported output format, defaulting to JSON", "format", format)
		return FormatJSON
	}
	return format
}

// NewWriter returns a Writer encoding to output, or to stdout when output is
// nil. Formats that cannot be written fall back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{
		format: writableOrJSON(format),
		output: output,
	}
}

// NewFileWriterOrStdout returns a Writer for path. An empty path or "-"
// selects stdout, as does a path that cannot be created.
func NewFileWriterOrStdout(format Format, path string) *Writer {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return NewStdoutWriter(format)
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create output file, writing to stdout", "path", path, "error", err)
		return NewStdoutWriter(format)
	}
	w := NewWriter(format, f)
	w.closer = f
	return w
}

// NewStdoutWriter returns a Writer for stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// Close closes the output file, if any. Later calls are no-ops.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	c := w.closer
	w.closer = nil
	return c.Close()
}

// Serialize writes v in the configured format.
func (w *Writer) Serialize(_ context.Context, v any) error {
	var err error
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		if err = enc.Encode(v); err == nil {
			err = enc.Close()
		}
	case FormatTable:
		err = w.writeTable(v)
	case FormatText:
		if t, ok := v.(Texter); ok {
			_, err = io.WriteString(w.output, t.Text())
		} else {
			err = w.writeTable(v)
		}
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", w.format, err)
	}
	return nil
}

func (w *Writer) writeTable(v any) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w.output)
	tw.SetStyle(table.StyleLight)

	if t, ok := v.(Tabler); ok {
		header, rows, footer := t.TableRows()
		tw.AppendHeader(toRow(header))
		for _, r := range rows {
			tw.AppendRow(toRow(r))
		}
		if len(footer) > 0 {
			tw.AppendFooter(toRow(footer))
		}
		tw.Render()
		return nil
	}

	flat := make(map[string]any)
	flatten(flat, reflect.ValueOf(v), "")
	if len(flat) == 0 {
		_, err := fmt.Fprintln(w.output, "<empty>")
		return err
	}

	title := cases.Title(language.English)
	tw.AppendHeader(table.Row{title.String("field"), title.String("value")})
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		tw.AppendRow(table.Row{k, flat[k]})
	}
	tw.Render()
	return nil
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

var timeType = reflect.TypeFor[time.Time]()

// flatten walks v and records every leaf under a dotted key.
func flatten(out map[string]any, v reflect.Value, key string) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			break
		}
		v = v.Elem()
	}
	if !v.IsValid() || ((v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil()) {
		if key != "" {
			out[key] = nil
		}
		return
	}

	if s, ok := v.Interface().(fmt.Stringer); ok && (v.Kind() != reflect.Struct || v.Type() == timeType) {
		out[leafKey(key)] = s.String()
		return
	}

	switch v.Kind() { //nolint:exhaustive // scalars fall through to default
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := jsonName(f)
			switch {
			case name == "-":
			case f.Anonymous:
				flatten(out, v.Field(i), key)
			default:
				flatten(out, v.Field(i), join(key, name))
			}
		}
	case reflect.Map:
		for _, k := range v.MapKeys() {
			flatten(out, v.MapIndex(k), join(key, fmt.Sprint(k.Interface())))
		}
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 && key != "" {
			out[key] = "[]"
			return
		}
		for i := range v.Len() {
			flatten(out, v.Index(i), join(key, fmt.Sprintf("[%d]", i)))
		}
	default:
		out[leafKey(key)] = v.Interface()
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

func leafKey(key string) string {
	if key == "" {
		return "value"
	}
	return key
}

func join(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}
