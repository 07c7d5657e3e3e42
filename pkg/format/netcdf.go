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
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/NVIDIA/data-checker/pkg/command"
	"github.com/NVIDIA/data-checker/pkg/dataset"
	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/errors"
)

// ncdump -k output mapped to netCDF data model names.
var netcdfModels = map[string]string{
	"classic":                "NETCDF3_CLASSIC",
	"64-bit offset":          "NETCDF3_64BIT_OFFSET",
	"64-bit data":            "NETCDF3_64BIT_DATA",
	"cdf5":                   "NETCDF3_64BIT_DATA",
	"netcdf-4":               "NETCDF4",
	"netcdf-4 classic model": "NETCDF4_CLASSIC",
}

type netcdfReader struct {
	path   string
	runner command.Runner

	mu    sync.Mutex
	model string
	ds    *dataset.Dataset
}

func newNetCDFReader(path string, runner command.Runner) *netcdfReader {
	return &netcdfReader{path: path, runner: runner}
}

func (r *netcdfReader) Path() string {
	return r.path
}

func (r *netcdfReader) ncdump(ctx context.Context, args ...string) (string, error) {
	out, err := r.runner.Run(ctx, defaults.NCDump, append(args, r.path)...)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeUnavailable, "ncdump failed", err,
			map[string]any{"path": r.path})
	}
	return string(out), nil
}

func (r *netcdfReader) FullFormat(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.model != "" {
		return r.model, nil
	}
	out, err := r.ncdump(ctx, "-k")
	if err != nil {
		return "", err
	}
	kind := strings.ToLower(strings.TrimSpace(out))
	model, ok := netcdfModels[kind]
	if !ok {
		return "", errors.NewWithContext(errors.ErrCodeUnsupported, "unknown netCDF kind",
			map[string]any{"path": r.path, "kind": kind})
	}
	r.model = model
	return model, nil
}

func (r *netcdfReader) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ds != nil {
		return r.ds, nil
	}
	out, err := r.ncdump(ctx, "-h")
	if err != nil {
		return nil, err
	}
	ds, _, err := parseCDL(out)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse ncdump header", err,
			map[string]any{"path": r.path})
	}
	ds.SetLoader(dataset.LoaderFunc(r.load))
	slog.Debug("read netCDF header", "path", r.path, "dimensions", len(ds.Dims), "variables", len(ds.Variables))
	r.ds = ds
	return ds, nil
}

func (r *netcdfReader) load(ctx context.Context, name string) ([]float64, error) {
	out, err := r.ncdump(ctx, "-p", "9,17", "-v", name)
	if err != nil {
		return nil, err
	}
	_, data, err := parseCDL(out)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse ncdump data", err,
			map[string]any{"path": r.path, "variable": name})
	}
	vals, ok := data[name]
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "variable has no data section",
			map[string]any{"path": r.path, "variable": name})
	}
	return vals, nil
}

func (r *netcdfReader) GlobalAttrs(ctx context.Context) (dataset.Attributes, error) {
	ds, err := r.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Attrs, nil
}

func (r *netcdfReader) GlobalSizes(ctx context.Context) (map[string]int, error) {
	ds, err := r.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Sizes(), nil
}

func (r *netcdfReader) VariableAttrs(ctx context.Context) (map[string]dataset.Attributes, error) {
	ds, err := r.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.VariableAttrs(), nil
}

func (r *netcdfReader) VariableSizes(ctx context.Context) (map[string]map[string]int, error) {
	ds, err := r.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.VariableSizes(), nil
}

func (r *netcdfReader) Close() error {
	return nil
}
