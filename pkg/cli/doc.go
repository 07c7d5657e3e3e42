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

// Package cli implements the data-checker command line.
//
// # Usage
//
//	data-checker [flags] CONFIGFILE
//
// The configuration file is a TOML (or YAML/JSON) document naming the files
// to check and one section per check to run:
//
//	files_pattern = "data/*.nc"
//	files_format = "NETCDF"
//
//	[format]
//	version = "NETCDF4"
//
//	[temporal_resolution]
//	min = 2020-01-01T00:00:00
//	frequency = "1h"
//
// Checks without a section are skipped. Every failing check prints its
// findings, followed by a summary of all checks:
//
//	format
//	  data/a.nc: NETCDF3_CLASSIC
//	SUMMARY:
//	cf_compliance: SKIPPED
//	...
//	format: FAILED
//	PASSED: 0
//	SKIPPED: 9
//	FAILED: 1
//
// The process exits with status 1 when any check fails.
//
// # Template
//
// A commented configuration covering every check is printed with:
//
//	data-checker --template-configfile > config.toml
//
// # Flags
//
//	--output, -o        Also write the run document to FILE ("-" for stdout)
//	--format, -t        Run document format: yaml, json, table, text (default: yaml)
//	--jobs, -j          Files processed concurrently by each check
//	--timeout           Limit for each external tool invocation
//	--spawn-rate        Maximum external tool invocations per second
//	--metrics-file      Write Prometheus metrics in text format to FILE
//	--log-level         debug, info, warn, error (env: LOG_LEVEL)
//	--log-format        text or json
//	--no-color          Disable colored status output
//	--version           Print the version and exit
//
// # External Tools
//
// Reading files and running checks relies on ncdump, grib_ls, grib_copy,
// grib_to_netcdf, cdo and cfchecks being on PATH. Only the tools needed by
// the configured checks are invoked.
package cli
