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

package header

import (
	"time"

	"github.com/google/uuid"
)

// Kind represents the type of document.
type Kind string

const (
	// KindCheckRun is the document produced by one CLI run over a configuration file.
	KindCheckRun Kind = "CheckRun"
)

// APIVersion is the schema version of documents produced by this module.
const APIVersion = "datachecker.nvidia.com/v1alpha1"

// Metadata keys.
const (
	MetaTimestamp  = "timestamp"
	MetaVersion    = "version"
	MetaRunID      = "runID"
	MetaConfigFile = "configfile"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	return k == KindCheckRun
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// Header contains metadata and versioning information for run documents.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// New creates a header of the given kind stamped with the current time, the
// tool version and a fresh run ID. Options are applied last.
func New(kind Kind, version string, opts ...Option) *Header {
	h := &Header{
		Kind:       kind,
		APIVersion: APIVersion,
		Metadata: map[string]string{
			MetaTimestamp: time.Now().UTC().Format(time.RFC3339),
			MetaRunID:     uuid.NewString(),
		},
	}
	if version != "" {
		h.Metadata[MetaVersion] = version
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RunID returns the run identifier, or an empty string.
func (h *Header) RunID() string {
	if h == nil {
		return ""
	}
	return h.Metadata[MetaRunID]
}
