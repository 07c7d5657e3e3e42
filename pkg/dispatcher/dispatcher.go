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

// Package dispatcher maps a configuration document onto checks.
//
// Each configuration section named after a registered check is turned into
// check arguments: declared parameters take the section value or their
// default, checks that accept extra keys receive the whole section, and
// keys no parameter consumes are logged as unused. When every file fails a
// check the same way, the per-file findings collapse into one entry keyed
// by the files pattern.
//
// Run executes every registered check in name order. Checks without a
// section are SKIPPED; the others end up PASSED, FAILED, or ERRORED when
// the check itself returns an error. An errored check does not stop the run.
package dispatcher

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/NVIDIA/data-checker/pkg/checker"
	"github.com/NVIDIA/data-checker/pkg/config"
	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/header"
	"github.com/NVIDIA/data-checker/pkg/report"
)

// Dispatcher runs the checks configured by a document.
type Dispatcher struct {
	doc     *config.Document
	checker *checker.Checker
	version string
	opts    []checker.Option
}

// Option is a functional option for configuring Dispatcher instances.
type Option func(*Dispatcher)

// WithVersion sets the tool version recorded in run results.
func WithVersion(version string) Option {
	return func(d *Dispatcher) {
		d.version = version
	}
}

// WithCheckerOptions passes options to the underlying checker.
func WithCheckerOptions(opts ...checker.Option) Option {
	return func(d *Dispatcher) {
		d.opts = append(d.opts, opts...)
	}
}

// New creates a Dispatcher for doc. The files pattern is resolved
// immediately so that a pattern matching nothing fails before any check.
func New(doc *config.Document, opts ...Option) (*Dispatcher, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "configuration document is nil")
	}
	d := &Dispatcher{doc: doc}
	for _, opt := range opts {
		opt(d)
	}

	c, err := checker.New(doc.FilesPattern, doc.FilesFormat, d.opts...)
	if err != nil {
		return nil, err
	}
	if _, err := c.Paths(); err != nil {
		return nil, err
	}
	d.checker = c

	for _, name := range doc.Sections() {
		if _, ok := checker.Lookup(name); !ok {
			slog.Warn("unknown configuration section", "section", name, "available", checker.Names())
		}
	}
	return d, nil
}

// AvailableChecks returns the registered check names in sorted order.
func (d *Dispatcher) AvailableChecks() []string {
	return checker.Names()
}

// Configured reports whether the document has a section for the check.
func (d *Dispatcher) Configured(name string) bool {
	return d.doc.Has(name)
}

// Args resolves the arguments of a configured check and returns the keys
// no declared parameter consumes.
func (d *Dispatcher) Args(name string) (checker.Args, []string, error) {
	def, ok := checker.Lookup(name)
	if !ok {
		return nil, nil, errors.NewWithContext(errors.ErrCodeNotFound, "unknown check",
			map[string]any{"check": name, "available": checker.Names()})
	}
	if !d.doc.Has(name) {
		return nil, nil, errors.NewWithContext(errors.ErrCodeNotFound, "check is not configured",
			map[string]any{"check": name})
	}
	section, err := d.doc.Section(name)
	if err != nil {
		return nil, nil, err
	}

	if def.AcceptsExtra {
		return checker.Args(section), nil, nil
	}

	args := checker.Args{}
	for _, p := range def.Params {
		v, ok := section[p.Name]
		switch {
		case ok:
			args[p.Name] = v
		case p.Required:
			return nil, nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "missing required argument",
				map[string]any{"check": name, "argument": p.Name})
		default:
			args[p.Name] = p.Default
		}
	}

	var unused []string
	for key := range section {
		if _, ok := def.Param(key); !ok {
			unused = append(unused, key)
		}
	}
	slices.Sort(unused)
	return args, unused, nil
}

// Check runs one configured check and returns its findings, collapsed to
// the files pattern when every file has the same finding.
func (d *Dispatcher) Check(ctx context.Context, name string) (report.Report, error) {
	args, unused, err := d.Args(name)
	if err != nil {
		return nil, err
	}
	if len(unused) > 0 {
		slog.Warn("unused arguments", "check", name, "arguments", unused)
	}

	def, _ := checker.Lookup(name)
	rep, err := def.Run(ctx, d.checker, args)
	if err != nil {
		return nil, err
	}

	paths, err := d.checker.Paths()
	if err != nil {
		return nil, err
	}
	return report.Collapse(rep, paths, d.checker.Pattern()), nil
}

// Run executes every registered check. It returns an error only when the
// context is cancelled; check failures and errors are recorded in the result.
func (d *Dispatcher) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()

	hdrOpts := []header.Option{}
	if d.doc.Path != "" {
		hdrOpts = append(hdrOpts, header.WithMetadata(header.MetaConfigFile, d.doc.Path))
	}
	paths, _ := d.checker.Paths()
	result := &RunResult{
		Header:       *header.New(header.KindCheckRun, d.version, hdrOpts...),
		FilesPattern: d.checker.Pattern(),
		FilesFormat:  string(d.checker.Kind()),
		Files:        len(paths),
		Results:      make([]CheckResult, 0, len(d.AvailableChecks())),
	}

	for _, name := range d.AvailableChecks() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cr := d.runOne(ctx, name)
		checkTotal.WithLabelValues(name, string(cr.Status)).Inc()
		result.add(cr)
	}

	result.Summary.Duration = time.Since(start)
	result.Summary.Status = RunStatusPass
	if result.Failed() {
		result.Summary.Status = RunStatusFail
	}

	slog.Debug("run completed",
		"runID", result.RunID(),
		"passed", result.Summary.Passed,
		"failed", result.Summary.Failed,
		"skipped", result.Summary.Skipped,
		"status", result.Summary.Status,
		"duration", result.Summary.Duration)
	return result, nil
}

func (d *Dispatcher) runOne(ctx context.Context, name string) CheckResult {
	cr := CheckResult{Name: name}
	if !d.Configured(name) {
		cr.Status = CheckStatusSkipped
		return cr
	}

	slog.Info("checking", "check", name)
	start := time.Now()
	rep, err := d.Check(ctx, name)
	cr.Duration = time.Since(start)

	switch {
	case err != nil:
		cr.Status = CheckStatusErrored
		cr.Message = err.Error()
		attrs := []any{"check", name, "error", err}
		if se, ok := errors.As(err); ok {
			attrs = append(attrs, se.LogAttrs()...)
		}
		slog.Error("check errored", attrs...)
	case rep.IsEmpty():
		cr.Status = CheckStatusPassed
	default:
		cr.Status = CheckStatusFailed
		cr.Errors = rep
	}
	return cr
}
