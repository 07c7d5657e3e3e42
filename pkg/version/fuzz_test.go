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

package version

import (
	"testing"
)

// FuzzParseVersion checks that successful parses round-trip through String.
func FuzzParseVersion(f *testing.F) {
	f.Add("1")
	f.Add("1.7")
	f.Add("CF-1.11")
	f.Add("vn1.8")
	f.Add("v1.2.3")
	f.Add("")
	f.Add(".")
	f.Add("1..2")
	f.Add("1.2.3.4")
	f.Add("CF-")

	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseVersion(s)
		if err != nil {
			return
		}
		again, err := ParseVersion(v.String())
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", v.String(), err)
		}
		if !again.Equals(v) {
			t.Fatalf("round trip mismatch: %v != %v", again, v)
		}
	})
}
