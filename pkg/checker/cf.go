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

package checker

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/data-checker/pkg/cfcheck"
	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/format"
	"github.com/NVIDIA/data-checker/pkg/report"
)

// CheckCFCompliance runs the CF conventions checker on every file and keeps
// FATAL and ERROR messages. An empty version lets the checker infer it from
// the Conventions attribute. Files the checker cannot read directly are
// first sampled to a small NetCDF file.
func (c *Checker) CheckCFCompliance(ctx context.Context, ver string) (report.Report, error) {
	ver, err := cfcheck.NormalizeVersion(ver)
	if err != nil {
		return nil, err
	}
	known := cfcheck.IsKnownVersion(ver)

	cacheDir, err := os.MkdirTemp("", "data-checker-cf-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create CF table cache", err)
	}
	defer os.RemoveAll(cacheDir)

	return c.collect(ctx, CheckCFCompliance, func(ctx context.Context, path string, r format.Reader, b *report.Builder) error {
		if !known {
			b.Set(cfcheck.UnavailableMessage(ver), path)
			return nil
		}

		target := path
		if s, ok := r.(format.Sampler); ok {
			dir, err := os.MkdirTemp("", "data-checker-sample-")
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, "failed to create sample directory", err)
			}
			defer os.RemoveAll(dir)

			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			target = filepath.Join(dir, base+".nc")
			if err := s.Sample(ctx, target); err != nil {
				return err
			}
		}

		res, err := c.cf.Check(ctx, target, ver, cacheDir)
		if err != nil {
			return err
		}
		if res.HasErrors() {
			b.SetIfAny(res.Errors(), path)
		}
		return nil
	})
}
