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
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/data-checker/pkg/dispatcher"
	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/serializer"
)

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() || !outFormat.CanWrite() {
		return "", errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format: %q", outFormat))
	}
	return outFormat, nil
}

// printResult writes the findings of failing checks followed by the summary.
func printResult(w io.Writer, result *dispatcher.RunResult, colored bool) error {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)
	skip := color.New(color.FgYellow)
	title := color.New(color.Bold)
	for _, c := range []*color.Color{pass, fail, skip, title} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	statusColor := map[dispatcher.CheckStatus]*color.Color{
		dispatcher.CheckStatusPassed:  pass,
		dispatcher.CheckStatusFailed:  fail,
		dispatcher.CheckStatusErrored: fail,
		dispatcher.CheckStatusSkipped: skip,
	}

	for _, cr := range result.Results {
		if cr.Status != dispatcher.CheckStatusFailed && cr.Status != dispatcher.CheckStatusErrored {
			continue
		}
		if _, err := title.Fprintln(w, cr.Name); err != nil {
			return err
		}
		for _, line := range cr.Lines() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	if _, err := title.Fprintln(w, "SUMMARY:"); err != nil {
		return err
	}
	for _, cr := range result.Results {
		status := cr.Status
		if status == dispatcher.CheckStatusErrored {
			status = dispatcher.CheckStatusFailed
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", cr.Name, statusColor[cr.Status].Sprint(status)); err != nil {
			return err
		}
	}

	counts := []struct {
		status dispatcher.CheckStatus
		n      int
	}{
		{dispatcher.CheckStatusPassed, result.Summary.Passed},
		{dispatcher.CheckStatusSkipped, result.Summary.Skipped},
		{dispatcher.CheckStatusFailed, result.Summary.Failed},
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "%s: %d\n", statusColor[c.status].Sprint(c.status), c.n); err != nil {
			return err
		}
	}
	return nil
}
