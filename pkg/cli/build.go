/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MiSo1289/hdrpkg/pkg/buildtool"
	"github.com/MiSo1289/hdrpkg/pkg/buildtool/cmake"
	"github.com/MiSo1289/hdrpkg/pkg/orchestrator"
	"github.com/MiSo1289/hdrpkg/pkg/recipe"
)

// newBuildTool creates the external build tool for a command. Tests replace
// it with a recording fake.
var newBuildTool = func(cmd *cli.Command, rec *recipe.Recipe) buildtool.Tool {
	opts := []cmake.Option{
		cmake.WithBuildDir(buildDir(cmd, rec)),
		cmake.WithGenerator(rec.Spec.Build.Generator),
		cmake.WithBuildType(cmd.String("build-type")),
		cmake.WithDefinitions(rec.Definitions()...),
		cmake.WithDefinitions(cmd.StringSlice("define")...),
		cmake.WithCTest(cmd.Bool("ctest")),
	}
	if gen := cmd.String("generator"); gen != "" {
		opts = append(opts, cmake.WithGenerator(gen))
	}
	if p := cmd.String("cmake"); p != "" {
		opts = append(opts, cmake.WithCMakePath(p))
	}
	if p := cmd.String("ctest-path"); p != "" {
		opts = append(opts, cmake.WithCTestPath(p))
	}
	if cmd.Bool("verbose") {
		opts = append(opts, cmake.WithOutput(os.Stderr, os.Stderr))
	}
	return cmake.New(opts...)
}

func buildDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "build-dir",
		Usage: "Build tree, relative to the source root (default: from recipe)",
	}
}

// buildDir returns the build tree relative to the source root.
func buildDir(cmd *cli.Command, rec *recipe.Recipe) string {
	if dir := cmd.String("build-dir"); dir != "" {
		return dir
	}
	return rec.Spec.Build.BuildDir
}

func buildToolFlags() []cli.Flag {
	return []cli.Flag{
		buildDirFlag(),
		&cli.StringFlag{
			Name:    "generator",
			Aliases: []string{"G"},
			Usage:   "CMake generator (default: from recipe, else cmake's default)",
			Sources: cli.EnvVars("CMAKE_GENERATOR"),
		},
		&cli.StringSliceFlag{
			Name:    "define",
			Aliases: []string{"D"},
			Usage:   "Extra cache entry passed to cmake as -DNAME=VALUE (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "ctest",
			Usage: "Run tests through ctest instead of building the test target",
		},
		&cli.StringFlag{
			Name:    "cmake",
			Usage:   "cmake executable",
			Sources: cli.EnvVars("HDRPKG_CMAKE"),
		},
		&cli.StringFlag{
			Name:    "ctest-path",
			Usage:   "ctest executable",
			Sources: cli.EnvVars("HDRPKG_CTEST"),
		},
		&cli.DurationFlag{
			Name:  "step-timeout",
			Usage: "Bound on each configure, build or test invocation (0 uses the default, negative disables)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Stream build tool output to stderr",
		},
	}
}

// stepSummary is one executed step of a build run.
type stepSummary struct {
	Name     string `json:"name" yaml:"name"`
	Duration string `json:"duration" yaml:"duration"`
}

// buildSummary is the rendered outcome of a build run.
type buildSummary struct {
	RunID      string        `json:"runId" yaml:"runId"`
	State      string        `json:"state" yaml:"state"`
	FailedStep string        `json:"failedStep,omitempty" yaml:"failedStep,omitempty"`
	Version    string        `json:"version" yaml:"version"`
	Tests      string        `json:"tests" yaml:"tests"`
	TestsRun   bool          `json:"testsRun" yaml:"testsRun"`
	States     []string      `json:"states" yaml:"states"`
	Steps      []stepSummary `json:"steps" yaml:"steps"`
}

var stepOrder = []orchestrator.Step{
	orchestrator.StepResolveVersion,
	orchestrator.StepConfigure,
	orchestrator.StepBuild,
	orchestrator.StepTest,
}

func summarizeBuild(res *orchestrator.Result) *buildSummary {
	title := cases.Title(language.English)
	s := &buildSummary{
		RunID:      res.RunID,
		State:      string(res.State),
		FailedStep: string(res.FailedStep),
		Version:    res.Version.String(),
		Tests:      res.Tests,
		TestsRun:   res.TestsRun,
	}
	for _, st := range res.States() {
		s.States = append(s.States, string(st))
	}
	for _, step := range stepOrder {
		d, ok := res.Durations[step]
		if !ok {
			continue
		}
		s.Steps = append(s.Steps, stepSummary{
			Name:     title.String(string(step)),
			Duration: d.Round(time.Millisecond).String(),
		})
	}
	return s
}

// runBuild reads the test toggle and runs the orchestrator. The toggle is
// validated before any step runs.
func runBuild(ctx context.Context, cmd *cli.Command, rec *recipe.Recipe, src string) (*buildSummary, error) {
	tests, err := orchestrator.TestToggleFromEnv(rec.Spec.Build.TestToggleEnv)
	if err != nil {
		return nil, err
	}

	opts := orchestrator.OptionsFromRecipe(rec, src, tests)
	opts.RequireVersion = cmd.Bool("require-version")
	opts.StepTimeout = cmd.Duration("step-timeout")

	res, err := orchestrator.Run(ctx, newBuildTool(cmd, rec), opts)
	summary := summarizeBuild(res)
	if err != nil {
		slog.Error("build failed",
			"runId", summary.RunID,
			"step", summary.FailedStep,
			"states", summary.States)
		return summary, err
	}

	slog.Info("build finished",
		"runId", summary.RunID,
		"version", summary.Version,
		"testsRun", summary.TestsRun)
	return summary, nil
}

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Configure, build and optionally test the library with cmake",
		Description: `Resolves the library version, then runs cmake configure, cmake build and,
unless disabled, the test target. Steps run strictly in order and the first
failure stops the run.

Tests are controlled by the environment variable named in the recipe
(CONAN_RUN_TESTS by default): 1/true/yes/on enable, 0/false/no/off disable,
unset runs them. Any other value is rejected before cmake is invoked.`,
		Flags: withFlags(
			[]cli.Flag{sourceFlag(), recipeFlag(), requireVersionFlag()},
			buildToolFlags(),
			[]cli.Flag{buildTypeFlag()},
			[]cli.Flag{outputFlag(), formatFlag()},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rec, src, err := loadRecipe(cmd)
			if err != nil {
				return err
			}
			summary, err := runBuild(ctx, cmd, rec, src)
			if summary != nil {
				if werr := writeResult(ctx, cmd, summary); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		},
	}
}
