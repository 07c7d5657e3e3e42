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

package defaults

import "time"

// CommandWaitDelay bounds how long a killed command may keep its pipes open.
const CommandWaitDelay = 5 * time.Second

// CF checker defaults.
const (
	// CFTableCacheDays is how long downloaded CF tables stay valid within a run.
	CFTableCacheDays = 10
)

// Check defaults.
const (
	// TimeCoordinate is the default name of the time coordinate.
	TimeCoordinate = "time"

	// HeaderSniffSize is how many leading bytes are scanned for a GRIB indicator.
	HeaderSniffSize = 4096

	// Jobs is the default number of files processed concurrently by a check.
	Jobs = 1
)

// External tool names, resolved through PATH.
const (
	NCDump       = "ncdump"
	GribLs       = "grib_ls"
	GribCopy     = "grib_copy"
	GribToNetCDF = "grib_to_netcdf"
	CDO          = "cdo"
	CFChecks     = "cfchecks"
)
