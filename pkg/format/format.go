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

// Package format reads gridded data files through external tools.
//
// Two kinds are supported, each behind the same Reader interface:
//
//   - NETCDF: ncdump prints the file kind, a CDL header and variable data.
//   - GRIB: the edition is read from the indicator section, message keys
//     come from grib_ls, and the array view is produced by grib_to_netcdf.
//
// A Factory is bound to one Kind when a checker is built:
//
//	open, err := format.NewFactory(format.KindNetCDF, command.NewExecRunner())
//	r, err := open("t2m.nc")
//	defer r.Close()
//	full, err := r.FullFormat(ctx) // "NETCDF4_CLASSIC"
//
// Every accessor is computed on first use and cached for the lifetime of
// the Reader. Close releases temporary files.
package format

import (
	"bytes"
	"context"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/NVIDIA/data-checker/pkg/command"
	"github.com/NVIDIA/data-checker/pkg/dataset"
	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/errors"
)

// Kind names a file format family.
type Kind string

const (
	KindGRIB   Kind = "GRIB"
	KindNetCDF Kind = "NETCDF"
)

// Kinds lists the supported kinds.
var Kinds = []Kind{KindGRIB, KindNetCDF}

// ParseKind converts a configuration value such as "grib" into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(Kinds, k) {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest, "unsupported files format",
			map[string]any{"format": s, "supported": Kinds})
	}
	return k, nil
}

// Extensions returns the file name extensions conventionally used by the kind.
func (k Kind) Extensions() []string {
	switch k {
	case KindGRIB:
		return []string{".grib", ".grb", ".grb1", ".grb2"}
	case KindNetCDF:
		return []string{".nc"}
	default:
		return nil
	}
}

// Reader exposes the metadata and values of one file.
type Reader interface {
	// Path returns the file the reader was opened on.
	Path() string
	// FullFormat returns the kind plus edition or data model, e.g. "GRIB2".
	FullFormat(ctx context.Context) (string, error)
	GlobalAttrs(ctx context.Context) (dataset.Attributes, error)
	GlobalSizes(ctx context.Context) (map[string]int, error)
	VariableAttrs(ctx context.Context) (map[string]dataset.Attributes, error)
	VariableSizes(ctx context.Context) (map[string]map[string]int, error)
	// Dataset returns the array view with lazily loaded values.
	Dataset(ctx context.Context) (*dataset.Dataset, error)
	Close() error
}

// Sampler is implemented by readers that must be converted before the CF
// checker can read them. Sample writes a small NetCDF file to dst.
type Sampler interface {
	Sample(ctx context.Context, dst string) error
}

// Factory opens a Reader for one path.
type Factory func(path string) (Reader, error)

// NewFactory returns a Factory for kind using runner for external tools.
func NewFactory(kind Kind, runner command.Runner) (Factory, error) {
	switch kind {
	case KindNetCDF:
		return func(path string) (Reader, error) {
			if err := sniffNetCDF(path); err != nil {
				return nil, err
			}
			return newNetCDFReader(path, runner), nil
		}, nil
	case KindGRIB:
		return func(path string) (Reader, error) {
			edition, err := sniffGRIB(path)
			if err != nil {
				return nil, err
			}
			return newGRIBReader(path, edition, runner), nil
		}, nil
	default:
		_, err := ParseKind(string(kind))
		return nil, err
	}
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "failed to open file", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	buf := make([]byte, defaults.HeaderSniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to read file", err,
			map[string]any{"path": path})
	}
	return buf[:n], nil
}

func notKind(path string, kind Kind) error {
	return errors.NewWithContext(errors.ErrCodeUnsupported, "file is not "+string(kind),
		map[string]any{"path": path, "format": kind})
}

var hdf5Signature = []byte("\x89HDF\r\n\x1a\n")

func sniffNetCDF(path string) error {
	head, err := readHead(path)
	if err != nil {
		return err
	}
	if len(head) >= 4 && bytes.HasPrefix(head, []byte("CDF")) && slices.Contains([]byte{1, 2, 5}, head[3]) {
		return nil
	}
	// HDF5 superblocks may follow a user block at 0, 512, 1024, 2048 ...
	for off := 0; off+len(hdf5Signature) <= len(head); off = max(512, off*2) {
		if bytes.Equal(head[off:off+len(hdf5Signature)], hdf5Signature) {
			return nil
		}
	}
	return notKind(path, KindNetCDF)
}

func sniffGRIB(path string) (int, error) {
	head, err := readHead(path)
	if err != nil {
		return 0, err
	}
	i := bytes.Index(head, []byte("GRIB"))
	if i < 0 || i+8 > len(head) {
		return 0, notKind(path, KindGRIB)
	}
	return int(head[i+7]), nil
}
