package serializer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value int    `json:"value" yaml:"value" toml:"value"`
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{name: "toml", path: "checks.toml", expected: FormatTOML},
		{name: "json lowercase", path: "config.json", expected: FormatJSON},
		{name: "json uppercase", path: "CONFIG.JSON", expected: FormatJSON},
		{name: "yaml extension", path: "config.yaml", expected: FormatYAML},
		{name: "yml extension", path: "config.yml", expected: FormatYAML},
		{name: "table", path: "out.table", expected: FormatTable},
		{name: "text", path: "out.txt", expected: FormatText},
		{name: "no extension", path: "checks", expected: FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.expected {
				t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestFormat_Capabilities(t *testing.T) {
	if FormatTable.CanRead() || FormatText.CanRead() {
		t.Error("table and text must be write-only")
	}
	if FormatTOML.CanWrite() {
		t.Error("toml must be read-only")
	}
	if !Format("xml").IsUnknown() {
		t.Error("xml must be unknown")
	}
	if len(SupportedFormats()) != 4 {
		t.Errorf("unexpected supported formats %v", SupportedFormats())
	}
}

func TestNewReader_Errors(t *testing.T) {
	if _, err := NewReader("xml", strings.NewReader("")); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := NewReader(FormatTable, strings.NewReader("")); err == nil {
		t.Error("expected error for table format")
	}
	if _, err := NewFileReader(FormatJSON, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{name: "json", format: FormatJSON, input: `{"name":"a","value":1}`},
		{name: "yaml", format: FormatYAML, input: "name: a\nvalue: 1\n"},
		{name: "toml", format: FormatTOML, input: "name = \"a\"\nvalue = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			defer r.Close()

			var got testConfig
			if err := r.Deserialize(&got); err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			if got.Name != "a" || got.Value != 1 {
				t.Errorf("unexpected result %+v", got)
			}
		})
	}
}

func TestReader_DeserializeInvalid(t *testing.T) {
	r, err := NewReader(FormatTOML, strings.NewReader("name = "))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	var got map[string]any
	if err := r.Deserialize(&got); err == nil {
		t.Error("expected decode error")
	}

	var nilReader *Reader
	if err := nilReader.Deserialize(&got); err == nil {
		t.Error("expected error for nil reader")
	}
	if err := nilReader.Close(); err != nil {
		t.Errorf("Close on nil reader: %v", err)
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.toml")
	content := `files_pattern = "*.grib"

[temporal_resolution]
min = 1900-01-01
frequency = "1MS"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := FromFile[map[string]any](path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if (*got)["files_pattern"] != "*.grib" {
		t.Errorf("unexpected files_pattern %v", (*got)["files_pattern"])
	}
	section, ok := (*got)["temporal_resolution"].(map[string]any)
	if !ok {
		t.Fatalf("expected table, got %T", (*got)["temporal_resolution"])
	}
	date, ok := section["min"].(toml.LocalDate)
	if !ok {
		t.Fatalf("expected local date, got %T", section["min"])
	}
	if !date.AsTime(time.UTC).Equal(time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", date)
	}
}

func TestReader_Strict(t *testing.T) {
	type section struct {
		Version string `json:"version" yaml:"version" toml:"version"`
	}
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, `{"version": "1.7", "extra": 1}`},
		{FormatYAML, "version: \"1.7\"\nextra: 1\n"},
		{FormatTOML, "version = \"1.7\"\nextra = 1\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			lax, err := NewReader(tt.format, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			var got section
			if err := lax.Deserialize(&got); err != nil {
				t.Fatalf("lax Deserialize failed: %v", err)
			}
			if got.Version != "1.7" {
				t.Errorf("version = %q, want 1.7", got.Version)
			}

			strict, err := NewReader(tt.format, strings.NewReader(tt.input), WithStrict(true))
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			if err := strict.Deserialize(&section{}); err == nil {
				t.Error("expected unknown field error in strict mode")
			}
		})
	}
}
