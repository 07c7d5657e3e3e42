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

// Package cfcheck runs the CF conventions checker (cfchecks) and parses its
// report into severity buckets per scope.
//
// cfchecks prints global messages first, then one block per variable:
//
//	CHECKING NetCDF FILE: sample.nc
//	=====================
//	Using CF Checker Version 4.1.0
//	Checking against CF Version CF-1.7
//
//	WARN: (2.6.1): No 'Conventions' attribute present
//
//	------------------
//	Checking variable: t2m
//	------------------
//	ERROR: (3.3): Invalid standard_name: air_temp
//
//	ERRORS detected: 1
//	WARNINGS given: 1
//	INFORMATION messages: 0
package cfcheck

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/NVIDIA/data-checker/pkg/command"
	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/report"
	"github.com/NVIDIA/data-checker/pkg/version"
)

// Severity is a cfchecks message category.
type Severity string

const (
	Fatal   Severity = "FATAL"
	Error   Severity = "ERROR"
	Warn    Severity = "WARN"
	Info    Severity = "INFO"
	Version Severity = "VERSION"
)

var severities = []Severity{Fatal, Error, Warn, Info, Version}

// Auto asks cfchecks to infer the version from the Conventions attribute.
const Auto = "auto"

// KnownVersions are the CF versions cfchecks can check against.
var KnownVersions = []string{
	"1.0", "1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "1.8", "1.9", "1.10", "1.11",
}

// NormalizeVersion turns "1.7", "CF-1.7" or "" into the form passed to
// cfchecks. Empty means Auto.
func NormalizeVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, Auto) {
		return Auto, nil
	}
	parsed, err := version.ParseVersion(v)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid CF version", err,
			map[string]any{"version": v})
	}
	return parsed.String(), nil
}

// IsKnownVersion reports whether v (already normalized) can be checked.
func IsKnownVersion(v string) bool {
	if v == Auto {
		return true
	}
	parsed, err := version.ParseVersion(v)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(KnownVersions, func(k string) bool {
		return version.MustParseVersion(k).Equals(parsed)
	})
}

// UnavailableMessage is recorded instead of running the checker for an
// unknown version.
func UnavailableMessage(v string) string {
	names := make([]string, 0, len(KnownVersions))
	for _, k := range KnownVersions {
		names = append(names, "'CF-"+k+"'")
	}
	return fmt.Sprintf("version=CF-%s is not available.\nAvailable versions: [%s].", v, strings.Join(names, ", "))
}

// Messages groups message texts by severity.
type Messages map[Severity][]string

// Results is the parsed output of one cfchecks run.
type Results struct {
	Global    Messages
	Variables map[string]Messages
	Counts    map[Severity]int
}

// HasErrors reports whether any ERROR or FATAL message was emitted.
func (r *Results) HasErrors() bool {
	return r.Counts[Error] > 0 || r.Counts[Fatal] > 0
}

func retained(m Messages) string {
	keep := append(slices.Clone(m[Fatal]), m[Error]...)
	return strings.Join(keep, "\n")
}

// Errors keeps FATAL and ERROR messages only, one newline separated string
// per scope, and drops scopes without any.
func (r *Results) Errors() report.Report {
	out := report.Report{}
	if s := retained(r.Global); s != "" {
		out["global"] = s
	}
	vars := report.Report{}
	for name, m := range r.Variables {
		if s := retained(m); s != "" {
			vars[name] = s
		}
	}
	if len(vars) > 0 {
		out["variables"] = vars
	}
	return out
}

var (
	messagePattern  = regexp.MustCompile(`^(FATAL|ERROR|WARN|INFO|VERSION):\s*(.*)$`)
	variablePattern = regexp.MustCompile(`^Checking variable:\s*(\S+)`)
	countPatterns   = map[Severity]*regexp.Regexp{
		Error: regexp.MustCompile(`^ERRORS detected:\s*(\d+)`),
		Warn:  regexp.MustCompile(`^WARNINGS given:\s*(\d+)`),
		Info:  regexp.MustCompile(`^INFORMATION messages:\s*(\d+)`),
	}
)

// Parse reads cfchecks output.
func Parse(out []byte) (*Results, error) {
	res := &Results{
		Global:    Messages{},
		Variables: map[string]Messages{},
		Counts:    map[Severity]int{},
	}
	scope := res.Global
	summary := false

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if m := variablePattern.FindStringSubmatch(line); m != nil {
			scope = Messages{}
			res.Variables[m[1]] = scope
			continue
		}
		if m := messagePattern.FindStringSubmatch(line); m != nil {
			sev := Severity(m[1])
			scope[sev] = append(scope[sev], m[2])
			continue
		}
		for sev, re := range countPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				n, _ := strconv.Atoi(m[1])
				res.Counts[sev] = n
				summary = true
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read cfchecks output", err)
	}
	if !summary {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "cfchecks output has no summary")
	}

	// the summary counts FATAL under ERRORS; keep both buckets consistent
	for _, sev := range severities {
		n := len(res.Global[sev])
		for _, m := range res.Variables {
			n += len(m[sev])
		}
		if sev == Fatal || res.Counts[sev] < n {
			res.Counts[sev] = n
		}
	}
	return res, nil
}

// Checker runs cfchecks through a command.Runner.
type Checker struct {
	runner command.Runner
}

// NewChecker returns a Checker.
func NewChecker(runner command.Runner) *Checker {
	return &Checker{runner: runner}
}

// Check runs cfchecks on path against version, caching standard tables in cacheDir.
func (c *Checker) Check(ctx context.Context, path, ver, cacheDir string) (*Results, error) {
	args := []string{
		"-x",
		"-t", strconv.Itoa(defaults.CFTableCacheDays),
		"--cache_dir", cacheDir,
		"-v", ver,
		path,
	}
	out, runErr := c.runner.Run(ctx, defaults.CFChecks, args...)
	res, err := Parse(out)
	if err != nil {
		// cfchecks exits non-zero when it finds errors; only fail without a report
		if runErr != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "cfchecks failed", runErr,
				map[string]any{"path": path})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "unexpected cfchecks output", err,
			map[string]any{"path": path})
	}
	return res, nil
}
