/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/logging"
)

const (
	name           = "hdrpkg"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the hdrpkg command line. It is called by main.main and exits
// the process with status 1 on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Build, package and publish header-only C++ libraries",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Description: `hdrpkg drives the build of a header-only C++ library and turns its public
headers into a package keyed by a stable identity:

  identity - resolve the version and print the package identity
  build    - configure, build and optionally test with cmake
  package  - stage the headers, manifest and checksums
  create   - build, package and store in the local package store
  push     - publish a staged package to an OCI registry
  inspect  - verify a staged package or list stored packages`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   string(logging.FormatText),
				Usage:   "Log format (text, json)",
				Sources: cli.EnvVars("HDRPKG_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics in textfile format to this path after the command",
				Sources: cli.EnvVars("HDRPKG_METRICS_FILE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			initLogger(cmd)
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			return writeMetrics(cmd.String("metrics-file"))
		},
		Commands: []*cli.Command{
			versionCmd(),
			identityCmd(),
			buildCmd(),
			packageCmd(),
			createCmd(),
			pushCmd(),
			inspectCmd(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			commandLister(ctx, cmd)
			return nil
		},
	}
}

// initLogger configures slog once flags are parsed so --log-level applies
// before any command executes.
func initLogger(cmd *cli.Command) {
	format := logging.Format(cmd.String("log-format"))
	logging.SetDefaultLogger(format, name, version, cmd.String("log-level"))
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date)
}

func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to write metrics file", err, map[string]any{"path": path})
	}
	slog.Debug("metrics written", "path", path)
	return nil
}

// commandLister prints the visible subcommands of cmd.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	var w io.Writer = os.Stdout
	if cmd.Writer != nil {
		w = cmd.Writer
	}
	if len(cmd.Commands) == 0 {
		return
	}
	fmt.Fprintf(w, "Available commands for %s:\n", cmd.Name)
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintf(w, "  %-10s %s\n", c.Name, c.Usage)
	}
}
