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

// Package defaults holds the constants shared by the checker packages:
// external tool names, command timeouts, the default time coordinate and
// the default per-check parallelism.
//
// External commands run without a deadline unless the CLI is given
// --timeout. A command killed on timeout or cancellation keeps its pipes
// for at most CommandWaitDelay:
//
//	cmd.WaitDelay = defaults.CommandWaitDelay
package defaults
