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

package dispatcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/NVIDIA/data-checker/pkg/header"
	"github.com/NVIDIA/data-checker/pkg/report"
)

// CheckStatus is the outcome of one check.
type CheckStatus string

const (
	// CheckStatusSkipped indicates the check has no configuration section.
	CheckStatusSkipped CheckStatus = "SKIPPED"

	// CheckStatusPassed indicates the check ran and found nothing.
	CheckStatusPassed CheckStatus = "PASSED"

	// CheckStatusFailed indicates the check ran and returned findings.
	CheckStatusFailed CheckStatus = "FAILED"

	// CheckStatusErrored indicates the check could not complete.
	CheckStatusErrored CheckStatus = "ERRORED"
)

// RunStatus is the overall outcome of a run.
type RunStatus string

const (
	// RunStatusPass indicates no check failed or errored.
	RunStatusPass RunStatus = "pass"

	// RunStatusFail indicates one or more checks failed or errored.
	RunStatusFail RunStatus = "fail"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name   string      `json:"name" yaml:"name"`
	Status CheckStatus `json:"status" yaml:"status"`

	// Errors holds the findings of a failed check.
	Errors report.Report `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Message describes why an errored check could not complete.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Summary contains aggregate statistics of a run. Errored checks are
// counted in both Failed and Errored.
type Summary struct {
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Errored  int           `json:"errored" yaml:"errored"`
	Total    int           `json:"total" yaml:"total"`
	Status   RunStatus     `json:"status" yaml:"status"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// RunResult is the document produced by running every check of a configuration.
type RunResult struct {
	header.Header `json:",inline" yaml:",inline"`

	FilesPattern string `json:"filesPattern" yaml:"filesPattern"`
	FilesFormat  string `json:"filesFormat" yaml:"filesFormat"`
	Files        int    `json:"files" yaml:"files"`

	Summary Summary       `json:"summary" yaml:"summary"`
	Results []CheckResult `json:"results" yaml:"results"`
}

func (r *RunResult) add(cr CheckResult) {
	r.Results = append(r.Results, cr)
	r.Summary.Total++
	switch cr.Status {
	case CheckStatusPassed:
		r.Summary.Passed++
	case CheckStatusFailed:
		r.Summary.Failed++
	case CheckStatusErrored:
		r.Summary.Failed++
		r.Summary.Errored++
	case CheckStatusSkipped:
		r.Summary.Skipped++
	}
}

// Failed reports whether any check failed or errored.
func (r *RunResult) Failed() bool {
	return r.Summary.Failed > 0
}

// Lines renders the diagnostics of a failed or errored check.
func (cr CheckResult) Lines() []string {
	switch cr.Status {
	case CheckStatusFailed:
		return report.Lines(cr.Errors)
	case CheckStatusErrored:
		lines := strings.Split(cr.Message, "\n")
		for i, l := range lines {
			lines[i] = "  " + l
		}
		return lines
	default:
		return nil
	}
}

// Text renders the run the way the command line prints it: diagnostics of
// every failing check, one status line per check and the counts.
func (r *RunResult) Text() string {
	var sb strings.Builder
	for _, cr := range r.Results {
		if cr.Status != CheckStatusFailed && cr.Status != CheckStatusErrored {
			continue
		}
		fmt.Fprintln(&sb, cr.Name)
		for _, line := range cr.Lines() {
			fmt.Fprintln(&sb, line)
		}
	}
	fmt.Fprintln(&sb, "SUMMARY:")
	for _, cr := range r.Results {
		status := cr.Status
		if status == CheckStatusErrored {
			status = CheckStatusFailed
		}
		fmt.Fprintf(&sb, "%s: %s\n", cr.Name, status)
	}
	fmt.Fprintf(&sb, "PASSED: %d\n", r.Summary.Passed)
	fmt.Fprintf(&sb, "SKIPPED: %d\n", r.Summary.Skipped)
	fmt.Fprintf(&sb, "FAILED: %d\n", r.Summary.Failed)
	return sb.String()
}

// TableRows lays the run out as one row per check with its findings.
func (r *RunResult) TableRows() ([]string, [][]string, []string) {
	header := []string{"check", "status", "duration", "findings"}
	rows := make([][]string, 0, len(r.Results))
	for _, cr := range r.Results {
		lines := cr.Lines()
		for i, l := range lines {
			lines[i] = strings.TrimPrefix(l, "  ")
		}
		var d string
		if cr.Status != CheckStatusSkipped {
			d = cr.Duration.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{cr.Name, string(cr.Status), d, strings.Join(lines, "\n")})
	}
	footer := []string{
		"summary",
		string(r.Summary.Status),
		r.Summary.Duration.Round(time.Millisecond).String(),
		fmt.Sprintf("passed %d, skipped %d, failed %d", r.Summary.Passed, r.Summary.Skipped, r.Summary.Failed),
	}
	return header, rows, footer
}
