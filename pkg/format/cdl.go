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

package format

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/NVIDIA/data-checker/pkg/dataset"
	"github.com/NVIDIA/data-checker/pkg/errors"
)

// CDL is the text form of a netCDF file printed by ncdump. Nested groups are
// parsed but only the root group is decoded.

type cdlFile struct {
	Name     string        `"netcdf" @Word "{"`
	Sections []*cdlSection `( @@`
	Groups   []*cdlGroup   `| @@ )* "}"`
}

type cdlGroup struct {
	Name     string        `Group @Word "{"`
	Sections []*cdlSection `( @@`
	Groups   []*cdlGroup   `| @@ )* "}"`
}

type cdlSection struct {
	Dimensions []*cdlDimension `  Dimensions @@*`
	Variables  []*cdlEntry     `| Variables @@*`
	Data       []*cdlData      `| Data @@*`
}

type cdlDimension struct {
	Pos       lexer.Position
	Name      string `@Word "="`
	Size      string `@Word ( "," | ";" )`
	Currently string `@Currently?`
}

// cdlEntry is a variable declaration or an attribute, either optionally
// prefixed by a type.
type cdlEntry struct {
	Pos   lexer.Position
	Type  string     `@Word?`
	Attr  *cdlAttr   `( @@`
	Decls []*cdlDecl `| @@ ( "," @@ )* ) ";"`
}

type cdlAttr struct {
	Ref    string      `@AttrRef "="`
	Values []*cdlValue `( @@ ( "," @@ )* )?`
}

type cdlDecl struct {
	Name string   `@Word`
	Dims []string `( "(" ( @Word ( "," @Word )* )? ")" )?`
}

type cdlData struct {
	Pos    lexer.Position
	Name   string      `@Word "="`
	Values []*cdlValue `@@ ( "," @@ )* ";"`
}

type cdlValue struct {
	Pos  lexer.Position
	Str  string `  @String`
	Word string `| @Word`
}

const cdlNameChars = `(?:\\.|[^\s"{}(),;=:\\/])`

var cdlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Currently", Pattern: `//[ \t]*\(\s*\d+ currently\)`},
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Dimensions", Pattern: `dimensions:\s`},
	{Name: "Variables", Pattern: `variables:\s`},
	{Name: "Data", Pattern: `data:\s`},
	{Name: "Group", Pattern: `group:\s`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	// [variable]:attribute with no space around the colon
	{Name: "AttrRef", Pattern: cdlNameChars + `*:` + cdlNameChars + `+`},
	{Name: "Word", Pattern: cdlNameChars + `+`},
	{Name: "Punct", Pattern: `[{}(),;=:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var cdlParser = participle.MustBuild[cdlFile](
	participle.Lexer(cdlLexer),
	participle.Elide("Comment", "Whitespace"),
)

var (
	currentlyPattern = regexp.MustCompile(`(\d+) currently`)
	typesSection     = regexp.MustCompile(`(?m)^\s*types:\s*$`)
)

var cdlTypes = []string{
	"char", "byte", "ubyte", "short", "ushort", "int", "uint", "int64", "uint64",
	"float", "double", "string", "long", "real",
}

func cdlErrorf(pos lexer.Position, token, format string, args ...any) error {
	return errors.NewWithContext(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("cdl line %d: ", pos.Line)+fmt.Sprintf(format, args...),
		map[string]any{"token": token})
}

// unescapeName drops the backslashes ncdump puts before special characters.
func unescapeName(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// splitAttrRef splits "var:att" at the first unescaped colon.
func splitAttrRef(ref string) (variable, name string) {
	for i := 0; i < len(ref); i++ {
		switch ref[i] {
		case '\\':
			i++
		case ':':
			return unescapeName(ref[:i]), unescapeName(ref[i+1:])
		}
	}
	return "", unescapeName(ref)
}

// unquote decodes a quoted CDL string. An embedded NUL ends char data.
func unquote(raw string) string {
	s := strings.TrimSuffix(strings.TrimPrefix(raw, `"`), `"`)
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '0':
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// parseCDL decodes ncdump output into a dataset and any data values it holds.
func parseCDL(src string) (*dataset.Dataset, map[string][]float64, error) {
	if typesSection.MatchString(src) {
		return nil, nil, errors.New(errors.ErrCodeUnsupported, "user defined types are not supported")
	}
	file, err := cdlParser.ParseString("", src)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read cdl", err)
	}

	d := &cdlDecoder{ds: dataset.New(nil), data: map[string][]float64{}}
	for _, sec := range file.Sections {
		for _, dim := range sec.Dimensions {
			if err := d.dimension(dim); err != nil {
				return nil, nil, err
			}
		}
		for _, e := range sec.Variables {
			if err := d.entry(e); err != nil {
				return nil, nil, err
			}
		}
		for _, e := range sec.Data {
			if err := d.values(e); err != nil {
				return nil, nil, err
			}
		}
	}
	return d.ds, d.data, nil
}

type cdlDecoder struct {
	ds   *dataset.Dataset
	data map[string][]float64
}

func (d *cdlDecoder) dimension(dim *cdlDimension) error {
	name := unescapeName(dim.Name)
	if strings.EqualFold(dim.Size, "UNLIMITED") {
		n := 0
		if m := currentlyPattern.FindStringSubmatch(dim.Currently); m != nil {
			n, _ = strconv.Atoi(m[1])
		}
		d.ds.AddDimension(name, n, true)
		return nil
	}
	n, err := strconv.Atoi(dim.Size)
	if err != nil {
		return cdlErrorf(dim.Pos, dim.Size, "invalid dimension size")
	}
	d.ds.AddDimension(name, n, false)
	return nil
}

func (d *cdlDecoder) entry(e *cdlEntry) error {
	if e.Type != "" && !slices.Contains(cdlTypes, e.Type) {
		return cdlErrorf(e.Pos, e.Type, "unknown type %q", e.Type)
	}
	if e.Attr != nil {
		return d.attribute(e.Pos, e.Type, e.Attr)
	}

	for _, decl := range e.Decls {
		name := unescapeName(decl.Name)
		var dims []string
		for _, dim := range decl.Dims {
			dims = append(dims, unescapeName(dim))
		}
		if e.Type == "char" && len(dims) > 0 {
			// the last dimension of a char array is the string length
			dims = dims[:len(dims)-1]
		}
		if _, err := d.ds.AddVariable(name, e.Type, dims, nil); err != nil {
			return err
		}
	}
	return nil
}

func (d *cdlDecoder) attribute(pos lexer.Position, typ string, a *cdlAttr) error {
	variable, name := splitAttrRef(a.Ref)
	into := d.ds.Attrs
	if variable != "" {
		v, ok := d.ds.Variable(variable)
		if !ok {
			return cdlErrorf(pos, a.Ref, "attribute for undeclared variable %q", variable)
		}
		into = v.Attrs
	}
	v, err := attributeValue(typ, a.Values)
	if err != nil {
		return cdlErrorf(pos, a.Ref, "attribute %s:%s: %v", variable, name, err)
	}
	into[name] = v
	return nil
}

func attributeValue(typ string, vals []*cdlValue) (any, error) {
	if len(vals) == 0 {
		return "", nil
	}
	if vals[0].Str != "" {
		if typ == "string" && len(vals) > 1 {
			out := make([]any, 0, len(vals))
			for _, v := range vals {
				out = append(out, unquote(v.Str))
			}
			return out, nil
		}
		var sb strings.Builder
		for _, v := range vals {
			sb.WriteString(unquote(v.Str))
		}
		return sb.String(), nil
	}

	out := make([]any, 0, len(vals))
	for _, v := range vals {
		n, err := parseNumber(v.Word)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

// parseNumber decodes a CDL numeric literal, returning int64 or float64.
func parseNumber(s string) (any, error) {
	switch strings.TrimSuffix(strings.TrimPrefix(s, "+"), "f") {
	case "NaN", "nan":
		return math.NaN(), nil
	case "Infinity", "inf":
		return math.Inf(1), nil
	case "-Infinity", "-inf":
		return math.Inf(-1), nil
	}

	core := s
	float := false
	for len(core) > 0 {
		last := rune(core[len(core)-1])
		if !unicode.IsLetter(last) || !strings.ContainsRune("bBsSlLuUfFdD", last) {
			break
		}
		if last == 'f' || last == 'F' || last == 'd' || last == 'D' {
			float = true
		}
		core = core[:len(core)-1]
	}
	if core == "" {
		return nil, fmt.Errorf("invalid number %q", s)
	}

	if float || strings.ContainsAny(core, ".eE") {
		f, err := strconv.ParseFloat(core, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		return f, nil
	}
	if i, err := strconv.ParseInt(core, 10, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(core, 10, 64); err == nil {
		return float64(u), nil
	}
	return nil, fmt.Errorf("invalid number %q", s)
}

func (d *cdlDecoder) values(e *cdlData) error {
	name := unescapeName(e.Name)
	vals := make([]float64, 0, len(e.Values))
	for _, v := range e.Values {
		switch {
		case v.Str != "":
			if unquote(v.Str) == "" {
				vals = append(vals, math.NaN())
			} else {
				vals = append(vals, 0)
			}
		case v.Word == "_":
			vals = append(vals, math.NaN())
		default:
			n, err := parseNumber(v.Word)
			if err != nil {
				return cdlErrorf(v.Pos, v.Word, "variable %s: %v", name, err)
			}
			vals = append(vals, toFloat(n))
		}
	}

	if v, ok := d.ds.Variable(name); ok {
		maskMissing(vals, v.Attrs)
	}
	d.data[name] = vals
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return math.NaN()
	}
}

// maskMissing replaces values equal to missing_value or _FillValue with NaN.
func maskMissing(vals []float64, attrs dataset.Attributes) {
	var missing []float64
	for _, key := range []string{"missing_value", "_FillValue"} {
		switch v := attrs[key].(type) {
		case int64, float64:
			missing = append(missing, toFloat(v))
		case []any:
			for _, e := range v {
				missing = append(missing, toFloat(e))
			}
		}
	}
	if len(missing) == 0 {
		return
	}
	for i, v := range vals {
		if slices.Contains(missing, v) {
			vals[i] = math.NaN()
		}
	}
}
