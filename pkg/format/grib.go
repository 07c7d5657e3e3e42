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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/NVIDIA/data-checker/pkg/command"
	"github.com/NVIDIA/data-checker/pkg/dataset"
	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/errors"
)

// GlobalKeys are the message keys shared by the whole file.
var GlobalKeys = []string{"edition", "centre", "centreDescription", "subCentre"}

// VariableKeys are the message keys describing one parameter.
var VariableKeys = []string{
	"paramId", "dataType", "numberOfPoints", "typeOfLevel", "stepUnits", "stepType",
	"gridType", "NV", "Nx", "Ny", "missingValue", "name", "shortName", "units",
	"cfName", "cfVarName", "gridDefinitionDescription",
	"iDirectionIncrementInDegrees", "jDirectionIncrementInDegrees",
	"iScansNegatively", "jScansPositively", "jPointsAreConsecutive",
	"latitudeOfFirstGridPointInDegrees", "longitudeOfFirstGridPointInDegrees",
	"latitudeOfLastGridPointInDegrees", "longitudeOfLastGridPointInDegrees",
}

const notFound = "not_found"

type gribReader struct {
	path    string
	edition int
	runner  command.Runner

	mu       sync.Mutex
	global   dataset.Attributes
	variable map[string]dataset.Attributes
	tmpDir   string
	nc       *netcdfReader
}

func newGRIBReader(path string, edition int, runner command.Runner) *gribReader {
	return &gribReader{path: path, edition: edition, runner: runner}
}

func (r *gribReader) Path() string {
	return r.path
}

func (r *gribReader) FullFormat(context.Context) (string, error) {
	return fmt.Sprintf("%s%d", KindGRIB, r.edition), nil
}

// messages runs grib_ls and decodes one attribute map per message.
func (r *gribReader) messages(ctx context.Context) ([]dataset.Attributes, error) {
	keys := append(append([]string{}, GlobalKeys...), VariableKeys...)
	out, err := r.runner.Run(ctx, defaults.GribLs, "-j", "-p", strings.Join(keys, ","), r.path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "grib_ls failed", err,
			map[string]any{"path": r.path})
	}
	return parseGribLs(out)
}

func parseGribLs(out []byte) ([]dataset.Attributes, error) {
	var doc struct {
		Messages []map[string]any `json:"messages"`
	}
	dec := json.NewDecoder(bytes.NewReader(out))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode grib_ls output", err)
	}

	msgs := make([]dataset.Attributes, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		attrs := dataset.Attributes{}
		for k, v := range m {
			if s, ok := v.(string); ok && s == notFound {
				continue
			}
			if n, ok := v.(json.Number); ok {
				if i, err := n.Int64(); err == nil {
					attrs[k] = i
				} else if f, err := n.Float64(); err == nil {
					attrs[k] = f
				}
				continue
			}
			attrs[k] = v
		}
		msgs = append(msgs, attrs)
	}
	return msgs, nil
}

func variableName(attrs dataset.Attributes) string {
	if name, ok := attrs["cfVarName"].(string); ok && name != "" && name != "unknown" {
		return name
	}
	if name, ok := attrs["shortName"].(string); ok && name != "" {
		return name
	}
	return fmt.Sprint(attrs["paramId"])
}

func (r *gribReader) loadKeys(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.global != nil {
		return nil
	}
	msgs, err := r.messages(ctx)
	if err != nil {
		return err
	}

	global := dataset.Attributes{}
	variable := map[string]dataset.Attributes{}
	for i, m := range msgs {
		if i == 0 {
			for _, k := range GlobalKeys {
				if v, ok := m[k]; ok {
					global[k] = v
				}
			}
		}
		name := variableName(m)
		if _, seen := variable[name]; seen {
			continue
		}
		attrs := dataset.Attributes{}
		for _, k := range VariableKeys {
			if v, ok := m[k]; ok {
				attrs[k] = v
			}
		}
		variable[name] = attrs
	}
	r.global, r.variable = global, variable
	return nil
}

func (r *gribReader) GlobalAttrs(ctx context.Context) (dataset.Attributes, error) {
	if err := r.loadKeys(ctx); err != nil {
		return nil, err
	}
	return r.global, nil
}

// VariableAttrs merges the global keys into every variable.
func (r *gribReader) VariableAttrs(ctx context.Context) (map[string]dataset.Attributes, error) {
	if err := r.loadKeys(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]dataset.Attributes, len(r.variable))
	for name, attrs := range r.variable {
		merged := r.global.Clone()
		for k, v := range attrs {
			merged[k] = v
		}
		out[name] = merged
	}
	return out, nil
}

// converted returns a NetCDF reader over the grib_to_netcdf output.
func (r *gribReader) converted(ctx context.Context) (*netcdfReader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nc != nil {
		return r.nc, nil
	}
	dir, err := os.MkdirTemp("", "data-checker-grib-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create temp dir", err)
	}
	out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(r.path), filepath.Ext(r.path))+".nc")
	if _, err := r.runner.Run(ctx, defaults.GribToNetCDF, "-o", out, r.path); err != nil {
		_ = os.RemoveAll(dir)
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "grib_to_netcdf failed", err,
			map[string]any{"path": r.path})
	}
	slog.Debug("converted GRIB to netCDF", "path", r.path, "output", out)
	r.tmpDir = dir
	r.nc = newNetCDFReader(out, r.runner)
	return r.nc, nil
}

func (r *gribReader) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	nc, err := r.converted(ctx)
	if err != nil {
		return nil, err
	}
	return nc.Dataset(ctx)
}

func (r *gribReader) GlobalSizes(ctx context.Context) (map[string]int, error) {
	nc, err := r.converted(ctx)
	if err != nil {
		return nil, err
	}
	return nc.GlobalSizes(ctx)
}

func (r *gribReader) VariableSizes(ctx context.Context) (map[string]map[string]int, error) {
	nc, err := r.converted(ctx)
	if err != nil {
		return nil, err
	}
	return nc.VariableSizes(ctx)
}

// Sample keeps only the first message and converts it to NetCDF at dst.
func (r *gribReader) Sample(ctx context.Context, dst string) error {
	first := strings.TrimSuffix(dst, filepath.Ext(dst)) + ".grib"
	defer os.Remove(first)

	if _, err := r.runner.Run(ctx, defaults.GribCopy, "-w", "count=1", r.path, first); err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "grib_copy failed", err,
			map[string]any{"path": r.path})
	}
	if _, err := r.runner.Run(ctx, defaults.GribToNetCDF, "-o", dst, first); err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "grib_to_netcdf failed", err,
			map[string]any{"path": r.path})
	}
	return nil
}

func (r *gribReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tmpDir == "" {
		return nil
	}
	err := os.RemoveAll(r.tmpDir)
	r.tmpDir, r.nc = "", nil
	return err
}
