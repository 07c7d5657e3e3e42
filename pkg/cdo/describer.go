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

package cdo

import (
	"context"

	"github.com/NVIDIA/data-checker/pkg/command"
	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/errors"
)

// Description types understood by cdo.
const (
	GridDescription  = "griddes"
	ZAxisDescription = "zaxisdes"
)

// Describer runs cdo description operators.
type Describer struct {
	runner command.Runner
	parser *Parser
}

// NewDescriber returns a Describer that runs cdo through runner.
func NewDescriber(runner command.Runner) *Describer {
	return &Describer{runner: runner, parser: NewParser()}
}

// Describe returns the description of path as a flat map.
func (d *Describer) Describe(ctx context.Context, path, desType string) (map[string]string, error) {
	if desType != GridDescription && desType != ZAxisDescription {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "unknown description type",
			map[string]any{"type": desType})
	}
	out, err := d.runner.Run(ctx, defaults.CDO, "-s", desType, path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "cdo "+desType+" failed", err,
			map[string]any{"path": path})
	}
	m, err := d.parser.Map(out)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse cdo output", err,
			map[string]any{"path": path, "type": desType})
	}
	return m, nil
}
