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

// Package command runs the external tools the data checker delegates to
// (ncdump, ecCodes, CDO, cfchecks).
//
// Every adapter depends on the Runner interface so tests can substitute
// canned tool output:
//
//	type fakeRunner map[string]string
//
//	func (f fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
//	    return []byte(f[name]), nil
//	}
//
// ExecRunner is the production implementation. It resolves tools through
// PATH, enforces an optional per-call timeout and spawn rate, and records a
// duration histogram per tool.
package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/errors"
)

// Runner executes an external program and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	timeout time.Duration
	limiter *rate.Limiter
}

// Option is a functional option for ExecRunner.
type Option func(*ExecRunner)

// WithTimeout bounds each invocation. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = d
	}
}

// WithSpawnRate limits how many processes are started per second. Zero or
// negative values leave spawning unlimited.
func WithSpawnRate(perSecond float64) Option {
	return func(r *ExecRunner) {
		if perSecond > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable,
			name+" not found in PATH", err, map[string]any{"command": name})
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "waiting to start "+name, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = defaults.CommandWaitDelay

	slog.Debug("running external command", "command", name, "args", strings.Join(args, " "))

	start := time.Now()
	out, err := cmd.Output()
	commandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		status := "error"
		defer func() { commandTotal.WithLabelValues(name, status).Inc() }()

		errCtx := map[string]any{
			"command": name,
			"args":    strings.Join(args, " "),
			"stderr":  strings.TrimSpace(stderr.String()),
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			status = "timeout"
			return out, errors.WrapWithContext(errors.ErrCodeTimeout, name+" did not finish", ctxErr, errCtx)
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			errCtx["exitCode"] = exitErr.ExitCode()
		}
		return out, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to execute "+name, err, errCtx)
	}

	commandTotal.WithLabelValues(name, "success").Inc()
	return out, nil
}
