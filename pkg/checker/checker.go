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

package checker

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/data-checker/pkg/cdo"
	"github.com/NVIDIA/data-checker/pkg/cfcheck"
	"github.com/NVIDIA/data-checker/pkg/command"
	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/format"
	"github.com/NVIDIA/data-checker/pkg/paths"
	"github.com/NVIDIA/data-checker/pkg/report"
)

// Describer returns the cdo grid or vertical axis description of a file.
type Describer interface {
	Describe(ctx context.Context, path, desType string) (map[string]string, error)
}

// CFChecker runs the CF conventions checker on a NetCDF file.
type CFChecker interface {
	Check(ctx context.Context, path, version, cacheDir string) (*cfcheck.Results, error)
}

// Checker runs checks over the files matching a pattern. It is immutable
// after construction and safe to reuse across checks.
type Checker struct {
	kind      format.Kind
	resolver  *paths.Resolver
	runner    command.Runner
	factory   format.Factory
	describer Describer
	cf        CFChecker
	jobs      int
	progress  io.Writer
}

// Option is a functional option for configuring Checker instances.
type Option func(*Checker)

// WithRunner sets the runner used for external tools. It is ignored for
// components supplied explicitly with other options.
func WithRunner(r command.Runner) Option {
	return func(c *Checker) {
		c.runner = r
	}
}

// WithFactory overrides how files are opened.
func WithFactory(f format.Factory) Option {
	return func(c *Checker) {
		c.factory = f
	}
}

// WithDescriber overrides the cdo description source.
func WithDescriber(d Describer) Option {
	return func(c *Checker) {
		c.describer = d
	}
}

// WithCFChecker overrides the CF conventions checker.
func WithCFChecker(cf CFChecker) Option {
	return func(c *Checker) {
		c.cf = cf
	}
}

// WithJobs sets how many files a check processes concurrently.
func WithJobs(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.jobs = n
		}
	}
}

// WithProgress writes a progress line to w while iterating files. The line
// is only drawn when w is a terminal.
func WithProgress(w io.Writer) Option {
	return func(c *Checker) {
		c.progress = w
	}
}

// New returns a Checker for the files matching pattern, read as kind.
func New(pattern string, kind format.Kind, opts ...Option) (*Checker, error) {
	kind, err := format.ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "files pattern is empty")
	}

	c := &Checker{
		kind:     kind,
		resolver: paths.NewResolver(pattern),
		jobs:     defaults.Jobs,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.runner == nil {
		c.runner = command.NewExecRunner()
	}
	if c.factory == nil {
		if c.factory, err = format.NewFactory(kind, c.runner); err != nil {
			return nil, err
		}
	}
	if c.describer == nil {
		c.describer = cdo.NewDescriber(c.runner)
	}
	if c.cf == nil {
		c.cf = cfcheck.NewChecker(c.runner)
	}
	return c, nil
}

// Pattern returns the files pattern.
func (c *Checker) Pattern() string {
	return c.resolver.Pattern()
}

// Kind returns the file format.
func (c *Checker) Kind() format.Kind {
	return c.kind
}

// Paths returns the sorted files matching the pattern. The glob is evaluated
// once; an empty match is an error.
func (c *Checker) Paths() ([]string, error) {
	return c.resolver.Paths()
}

// open returns a reader for path. Callers must close it.
func (c *Checker) open(path string) (format.Reader, error) {
	r, err := c.factory(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func closeReader(path string, r format.Reader) {
	if err := r.Close(); err != nil {
		slog.Warn("failed to close reader", "path", path, "error", err)
	}
}

// forEach opens every matched file and calls fn with the resolved path and
// its reader. Findings are keyed by that path so they line up with Paths().
// Files are processed with at most c.jobs in flight; the first error
// cancels the rest.
func (c *Checker) forEach(ctx context.Context, check string, fn func(ctx context.Context, path string, r format.Reader) error) error {
	files, err := c.Paths()
	if err != nil {
		return err
	}

	start := time.Now()
	p := c.startProgress(check, len(files))
	defer p.finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)
	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := c.open(path)
			if err != nil {
				return err
			}
			defer closeReader(path, r)

			if err := fn(gctx, path, r); err != nil {
				return err
			}
			filesChecked.WithLabelValues(check).Inc()
			p.advance(path)
			return nil
		})
	}
	err = g.Wait()
	checkDuration.WithLabelValues(check).Observe(time.Since(start).Seconds())
	return err
}

// collect runs forEach and returns the builder's findings.
func (c *Checker) collect(ctx context.Context, check string, fn func(ctx context.Context, path string, r format.Reader, b *report.Builder) error) (report.Report, error) {
	b := report.NewBuilder()
	err := c.forEach(ctx, check, func(ctx context.Context, path string, r format.Reader) error {
		return fn(ctx, path, r, b)
	})
	if err != nil {
		return nil, err
	}
	rep := b.Report()
	recordFindings(check, len(rep))
	return rep, nil
}
