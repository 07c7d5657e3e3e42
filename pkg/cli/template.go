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

package cli

import (
	"fmt"
	"strings"

	"github.com/NVIDIA/data-checker/pkg/checker"
	"github.com/NVIDIA/data-checker/pkg/config"
)

// configTemplate renders a commented configuration covering every check.
func configTemplate(v string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Template configuration file for %s v%s\n\n", name, v)
	fmt.Fprintf(&sb, `# Files to check.
#
# Arguments:
#   * %s: glob pattern of the files to check (required)
#   * %s: format of the files, GRIB or NETCDF (required)
#
# Example:
%s = "path/to/files/*.nc"
%s = "NETCDF"

`, config.KeyFilesPattern, config.KeyFilesFormat, config.KeyFilesPattern, config.KeyFilesFormat)
	sb.WriteString("# All checks are optional (skip checks removing their sections).\n")
	sb.WriteString("# Unless otherwise specified, optional arguments default to None.\n")
	for _, def := range checker.Definitions() {
		sb.WriteString("\n")
		sb.WriteString(def.Template)
	}
	return sb.String()
}
