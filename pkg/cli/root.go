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
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/data-checker/pkg/checker"
	"github.com/NVIDIA/data-checker/pkg/command"
	"github.com/NVIDIA/data-checker/pkg/config"
	"github.com/NVIDIA/data-checker/pkg/defaults"
	"github.com/NVIDIA/data-checker/pkg/dispatcher"
	"github.com/NVIDIA/data-checker/pkg/errors"
	"github.com/NVIDIA/data-checker/pkg/logging"
	"github.com/NVIDIA/data-checker/pkg/serializer"
)

const (
	name           = "data-checker"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// ErrChecksFailed is returned when the run completed but at least one check
// failed or errored.
var ErrChecksFailed = stderrors.New("one or more checks failed")

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Also write the run document to this file (\"-\" for stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Run document format (%v)", serializer.SupportedFormats()),
	}
)

// Execute runs the root command with os.Args. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		if !stderrors.Is(err, ErrChecksFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		EnableShellCompletion: true,
		Usage:                 "Check geophysical data files against a configuration",
		ArgsUsage:             "CONFIGFILE",
		Description: fmt.Sprintf(`Run the checks configured in CONFIGFILE over the GRIB or NETCDF files
matching its files_pattern.

Version: %s
Commit:  %s
Built:   %s

Checks without a section in CONFIGFILE are skipped. Use --template-configfile
to print a commented configuration covering every check.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "template-configfile",
				Usage: "Print a template configuration file and exit",
			},
			&cli.BoolFlag{
				Name:  "version",
				Usage: "Print the version and exit",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of files processed concurrently by each check",
				Value:   defaults.Jobs,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Limit for each external tool invocation (0 disables)",
			},
			&cli.FloatFlag{
				Name:  "spawn-rate",
				Usage: "Maximum external tool invocations per second (0 disables)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics in text format to this file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
				Value: string(logging.FormatText),
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored status output",
			},
			outputFlag,
			formatFlag,
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	if cmd.Bool("version") {
		_, err := fmt.Fprintln(w, version)
		return err
	}
	if cmd.Bool("template-configfile") {
		_, err := fmt.Fprint(w, configTemplate(version))
		return err
	}

	logging.SetDefaultLogger(logging.Config{
		Module:  name,
		Version: version,
		Level:   cmd.String("log-level"),
		Format:  logging.Format(cmd.String("log-format")),
		Writer:  cmd.Root().ErrWriter,
	})

	if cmd.Args().Len() != 1 {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("expected exactly one CONFIGFILE argument, got %d", cmd.Args().Len()))
	}
	configFile := cmd.Args().First()

	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	doc, err := config.Load(configFile)
	if err != nil {
		return err
	}

	d, err := dispatcher.New(doc,
		dispatcher.WithVersion(version),
		dispatcher.WithCheckerOptions(checkerOptions(cmd)...),
	)
	if err != nil {
		return err
	}

	slog.Debug("starting run",
		"config", configFile,
		"pattern", doc.FilesPattern,
		"format", doc.FilesFormat)

	result, err := d.Run(ctx)
	if err != nil {
		return err
	}
	if err := printResult(w, result, !cmd.Bool("no-color")); err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" {
		if err := writeResult(ctx, outFormat, out, result); err != nil {
			return err
		}
	}

	if path := cmd.String("metrics-file"); path != "" {
		if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to write metrics file", err)
		}
	}

	if result.Failed() {
		return ErrChecksFailed
	}
	return nil
}

func checkerOptions(cmd *cli.Command) []checker.Option {
	var runnerOpts []command.Option
	if d := cmd.Duration("timeout"); d > 0 {
		runnerOpts = append(runnerOpts, command.WithTimeout(d))
	}
	if r := cmd.Float("spawn-rate"); r > 0 {
		runnerOpts = append(runnerOpts, command.WithSpawnRate(r))
	}

	opts := []checker.Option{
		checker.WithRunner(command.NewExecRunner(runnerOpts...)),
		checker.WithProgress(cmd.Root().ErrWriter),
	}
	if j := cmd.Int("jobs"); j > 0 {
		opts = append(opts, checker.WithJobs(int(j)))
	}
	return opts
}

func writeResult(ctx context.Context, format serializer.Format, path string, result *dispatcher.RunResult) error {
	start := time.Now()
	w := serializer.NewFileWriterOrStdout(format, path)
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("failed to close output", "path", path, "error", err)
		}
	}()
	if err := w.Serialize(ctx, result); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write run document", err)
	}
	slog.Debug("run document written", "path", path, "format", format, "duration", time.Since(start))
	return nil
}
