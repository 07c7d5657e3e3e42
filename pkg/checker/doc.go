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

// Package checker runs quality-control checks over a set of data files.
//
// A Checker is bound to a files pattern and a file format. Every check
// resolves the pattern once, opens one format.Reader per file, compares
// what it reads against the expected values and returns a report.Report
// keyed by file path. An empty report means the check passed.
//
// Checks are described by a static registry (see Definitions) so that
// configuration sections can be mapped onto check arguments and a
// configuration template can be generated.
//
// Usage:
//
//	c, err := checker.New("data/*.nc", format.KindNetCDF)
//	if err != nil {
//	    return err
//	}
//	rep, err := c.CheckFormat(ctx, "4")
package checker
