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

// Package cdo extracts grid and vertical axis descriptions with the Climate
// Data Operators.
//
// "cdo griddes" and "cdo zaxisdes" print key=value lines:
//
//	#
//	# gridID 1
//	#
//	gridtype  = lonlat
//	gridsize  = 64800
//	xname     = longitude
//	xunits    = "degrees_east"
//	xinc      = 1
//
// Parser turns that text into an ordered list of "key=value" entries, with
// quotes stripped and whitespace trimmed around the delimiter, and into a map
// where later grids overwrite earlier ones.
package cdo
