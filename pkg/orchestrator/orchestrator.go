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

package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MiSo1289/hdrpkg/pkg/buildtool"
	"github.com/MiSo1289/hdrpkg/pkg/defaults"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/recipe"
	"github.com/MiSo1289/hdrpkg/pkg/resolver"
)

// State is a build run state.
type State string

const (
	StateIdle         State = "idle"
	StateConfiguring  State = "configuring"
	StateBuilding     State = "building"
	StateTestDecision State = "test-decision"
	StateTesting      State = "testing"
	StateSkipTest     State = "skip-test"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Step names the unit of work a failure is attributed to.
type Step string

const (
	StepResolveVersion Step = "resolve-version"
	StepConfigure      Step = "configure"
	StepBuild          Step = "build"
	StepTest           Step = "test"
)

// Options configure one build run.
type Options struct {
	// SourceDir is the source tree handed to the build tool. Required.
	SourceDir string

	// VersionFile is the build configuration holding the version, absolute
	// or relative to SourceDir. Default is defaults.VersionFile.
	VersionFile string

	// VersionVariable is the variable assigned the version.
	// Default is defaults.VersionVariable.
	VersionVariable string

	// RequireVersion fails the run when the configuration is unreadable
	// instead of continuing with an unknown version.
	RequireVersion bool

	// TestTarget is the target run by the test step.
	// Default is defaults.TestTarget.
	TestTarget string

	// Tests decides whether the test step runs.
	Tests TestToggle

	// StepTimeout bounds each tool invocation. Zero uses
	// defaults.StepTimeout; negative disables the bound.
	StepTimeout time.Duration
}

// OptionsFromRecipe derives run options from a recipe and a source root.
func OptionsFromRecipe(r *recipe.Recipe, sourceDir string, tests TestToggle) Options {
	return Options{
		SourceDir:       sourceDir,
		VersionFile:     r.VersionFilePath(sourceDir),
		VersionVariable: r.Spec.Version.Variable,
		TestTarget:      r.Spec.Build.TestTarget,
		Tests:           tests,
	}
}

func (o *Options) applyDefaults() {
	if o.VersionFile == "" {
		o.VersionFile = defaults.VersionFile
	}
	if !filepath.IsAbs(o.VersionFile) {
		o.VersionFile = filepath.Join(o.SourceDir, o.VersionFile)
	}
	if o.VersionVariable == "" {
		o.VersionVariable = defaults.VersionVariable
	}
	if o.TestTarget == "" {
		o.TestTarget = defaults.TestTarget
	}
	if o.StepTimeout == 0 {
		o.StepTimeout = defaults.StepTimeout
	}
}

// Transition records one state change.
type Transition struct {
	From State     `json:"from" yaml:"from"`
	To   State     `json:"to" yaml:"to"`
	At   time.Time `json:"at" yaml:"at"`
}

// Result describes a finished run, successful or not.
type Result struct {
	RunID       string                 `json:"runId" yaml:"runId"`
	State       State                  `json:"state" yaml:"state"`
	FailedStep  Step                   `json:"failedStep,omitempty" yaml:"failedStep,omitempty"`
	Version     resolver.Version       `json:"version" yaml:"version"`
	Tests       string                 `json:"tests" yaml:"tests"`
	TestsRun    bool                   `json:"testsRun" yaml:"testsRun"`
	Transitions []Transition           `json:"transitions" yaml:"transitions"`
	Durations   map[Step]time.Duration `json:"durations" yaml:"durations"`
}

// States returns the visited states in order, starting with Idle.
func (r *Result) States() []State {
	states := []State{StateIdle}
	for _, t := range r.Transitions {
		states = append(states, t.To)
	}
	return states
}

// Succeeded reports whether the run reached Done.
func (r *Result) Succeeded() bool {
	return r.State == StateDone
}

type run struct {
	tool   buildtool.Tool
	opts   Options
	result *Result
	log    *slog.Logger
}

// Run drives tool through configure, build and, unless disabled, test.
//
// The version is resolved first and only recorded. A malformed build
// configuration, or an unreadable one when RequireVersion is set, fails the
// run before the tool is touched. Each step runs once; the first failure
// ends the run and no later step is invoked. The returned Result is never
// nil, and the error is non-nil exactly when the run ends Failed.
func Run(ctx context.Context, tool buildtool.Tool, opts Options) (*Result, error) {
	result := &Result{
		RunID:     uuid.New().String(),
		State:     StateIdle,
		Version:   resolver.Unknown,
		Tests:     opts.Tests.String(),
		Durations: map[Step]time.Duration{},
	}

	if tool == nil {
		return result, apperrors.New(apperrors.ErrCodeInvalidRequest, "build tool is required")
	}
	if opts.SourceDir == "" {
		return result, apperrors.New(apperrors.ErrCodeInvalidRequest, "source directory is required")
	}
	opts.applyDefaults()

	r := &run{
		tool:   tool,
		opts:   opts,
		result: result,
		log:    slog.With("runId", result.RunID, "source", opts.SourceDir),
	}

	err := r.execute(ctx)
	runsTotal.WithLabelValues(string(result.State)).Inc()
	return result, err
}

func (r *run) execute(ctx context.Context) error {
	if err := r.resolveVersion(); err != nil {
		return err
	}

	r.transition(StateConfiguring)
	if err := r.step(ctx, StepConfigure, func(ctx context.Context) error {
		return r.tool.Configure(ctx, r.opts.SourceDir)
	}); err != nil {
		return err
	}

	r.transition(StateBuilding)
	if err := r.step(ctx, StepBuild, r.tool.Build); err != nil {
		return err
	}

	r.transition(StateTestDecision)
	if !r.opts.Tests.ShouldRun() {
		r.log.Info("tests disabled, skipping test step", "toggle", r.opts.Tests.String())
		r.transition(StateSkipTest)
		r.transition(StateDone)
		return nil
	}

	r.transition(StateTesting)
	r.result.TestsRun = true
	if err := r.step(ctx, StepTest, func(ctx context.Context) error {
		return r.tool.Test(ctx, r.opts.TestTarget)
	}); err != nil {
		return err
	}

	r.transition(StateDone)
	r.log.Info("build completed", "version", r.result.Version.String(), "testsRun", r.result.TestsRun)
	return nil
}

func (r *run) resolveVersion() error {
	v, err := resolver.Resolve(r.opts.VersionFile, r.opts.VersionVariable)
	switch {
	case err == nil:
		r.result.Version = v
		r.log.Debug("resolved version", "version", v.Value)
		return nil
	case resolver.IsUnreadable(err) && !r.opts.RequireVersion:
		r.log.Warn("build configuration unreadable, continuing with unknown version",
			"path", r.opts.VersionFile, "error", err)
		return nil
	default:
		return r.fail(StepResolveVersion, err)
	}
}

// step runs fn under the step timeout and records its duration.
func (r *run) step(ctx context.Context, step Step, fn func(context.Context) error) error {
	stepCtx := ctx
	if r.opts.StepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, r.opts.StepTimeout)
		defer cancel()
	}

	r.log.Info("starting step", "step", step)
	start := time.Now()
	err := fn(stepCtx)
	elapsed := time.Since(start)

	r.result.Durations[step] = elapsed
	stepDuration.WithLabelValues(string(step)).Observe(elapsed.Seconds())

	if err != nil {
		if apperrors.CodeOf(err) != apperrors.ErrCodeTimeout {
			err = apperrors.WrapWithContext(apperrors.ErrCodeExternalToolFailure,
				fmt.Sprintf("%s step failed", step), err, map[string]any{"step": string(step)})
		}
		return r.fail(step, err)
	}
	r.log.Debug("step finished", "step", step, "duration", elapsed)
	return nil
}

func (r *run) fail(step Step, err error) error {
	r.result.FailedStep = step
	r.transition(StateFailed)
	stepFailures.WithLabelValues(string(step)).Inc()
	r.log.Error("build step failed", "step", step, "error", err)
	return err
}

func (r *run) transition(to State) {
	r.result.Transitions = append(r.result.Transitions, Transition{
		From: r.result.State,
		To:   to,
		At:   time.Now().UTC(),
	})
	r.result.State = to
}
