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

package cmake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/MiSo1289/hdrpkg/pkg/buildtool"
	"github.com/MiSo1289/hdrpkg/pkg/defaults"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

// ExecCommandFunc creates the command for one tool invocation. Tests replace
// it to avoid depending on an installed cmake.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Option configures a CMake adapter.
type Option func(*CMake)

// CMake drives the cmake command line. It implements buildtool.Tool.
type CMake struct {
	cmakePath   string
	ctestPath   string
	buildDir    string
	generator   string
	buildType   string
	definitions []string
	useCTest    bool
	tailBytes   int
	stdout      io.Writer
	stderr      io.Writer
	execCommand ExecCommandFunc

	// resolved at Configure
	buildTree string
}

var _ buildtool.Tool = (*CMake)(nil)

// WithCMakePath sets the cmake executable. Default is "cmake" from PATH.
func WithCMakePath(path string) Option {
	return func(c *CMake) {
		c.cmakePath = path
	}
}

// WithCTestPath sets the ctest executable. Default is "ctest" from PATH.
func WithCTestPath(path string) Option {
	return func(c *CMake) {
		c.ctestPath = path
	}
}

// WithBuildDir sets the build tree. A relative path is resolved against the
// source directory passed to Configure. Default is "build".
func WithBuildDir(dir string) Option {
	return func(c *CMake) {
		c.buildDir = dir
	}
}

// WithGenerator sets the CMake generator (-G).
func WithGenerator(generator string) Option {
	return func(c *CMake) {
		c.generator = generator
	}
}

// WithBuildType sets CMAKE_BUILD_TYPE at configure time and --config at
// build time.
func WithBuildType(buildType string) Option {
	return func(c *CMake) {
		c.buildType = buildType
	}
}

// WithDefinitions adds cache entries, each in "NAME=VALUE" form.
func WithDefinitions(defs ...string) Option {
	return func(c *CMake) {
		c.definitions = append(c.definitions, defs...)
	}
}

// WithCTest runs tests through ctest filtered by the target name instead of
// building the target.
func WithCTest(enabled bool) Option {
	return func(c *CMake) {
		c.useCTest = enabled
	}
}

// WithOutput sets where tool output is copied. Both default to io.Discard;
// stderr is additionally retained for diagnostics.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *CMake) {
		if stdout != nil {
			c.stdout = stdout
		}
		if stderr != nil {
			c.stderr = stderr
		}
	}
}

// WithDiagnosticTail sets how many trailing stderr bytes are attached to a
// failure. Default is defaults.DiagnosticTailBytes.
func WithDiagnosticTail(n int) Option {
	return func(c *CMake) {
		c.tailBytes = n
	}
}

// WithExecCommand replaces command creation.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(c *CMake) {
		c.execCommand = fn
	}
}

// New returns a CMake adapter with the given options applied.
func New(opts ...Option) *CMake {
	c := &CMake{
		cmakePath:   "cmake",
		ctestPath:   "ctest",
		buildDir:    defaults.BuildDir,
		tailBytes:   defaults.DiagnosticTailBytes,
		stdout:      io.Discard,
		stderr:      io.Discard,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildTree returns the resolved build tree, or "" before Configure.
func (c *CMake) BuildTree() string {
	return c.buildTree
}

// ConfigureArgs returns the cmake arguments Configure would run.
func (c *CMake) ConfigureArgs(sourceDir string) []string {
	args := []string{"-S", sourceDir, "-B", c.resolveBuildDir(sourceDir)}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	if c.buildType != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE="+c.buildType)
	}
	for _, d := range c.definitions {
		args = append(args, "-D"+d)
	}
	return args
}

// Configure runs cmake -S <source> -B <build>.
func (c *CMake) Configure(ctx context.Context, sourceDir string) error {
	c.buildTree = c.resolveBuildDir(sourceDir)
	return c.run(ctx, "configure", c.cmakePath, c.ConfigureArgs(sourceDir)...)
}

// Build runs cmake --build <build>.
func (c *CMake) Build(ctx context.Context) error {
	if c.buildTree == "" {
		return apperrors.New(apperrors.ErrCodeInternal, "build requested before configure")
	}
	args := []string{"--build", c.buildTree}
	if c.buildType != "" {
		args = append(args, "--config", c.buildType)
	}
	return c.run(ctx, "build", c.cmakePath, args...)
}

// Test builds the named target, or runs matching ctest tests in ctest mode.
func (c *CMake) Test(ctx context.Context, target string) error {
	if c.buildTree == "" {
		return apperrors.New(apperrors.ErrCodeInternal, "test requested before configure")
	}
	if target == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "test target is empty")
	}

	if c.useCTest {
		args := []string{"--test-dir", c.buildTree, "-R", target, "--output-on-failure"}
		if c.buildType != "" {
			args = append(args, "-C", c.buildType)
		}
		return c.run(ctx, "test", c.ctestPath, args...)
	}

	args := []string{"--build", c.buildTree, "--target", target}
	if c.buildType != "" {
		args = append(args, "--config", c.buildType)
	}
	return c.run(ctx, "test", c.cmakePath, args...)
}

func (c *CMake) resolveBuildDir(sourceDir string) string {
	if filepath.IsAbs(c.buildDir) {
		return c.buildDir
	}
	return filepath.Join(sourceDir, c.buildDir)
}

func (c *CMake) run(ctx context.Context, step, name string, args ...string) error {
	tail := buildtool.NewTailBuffer(c.tailBytes)

	cmd := c.execCommand(ctx, name, args...)
	cmd.Stdout = c.stdout
	cmd.Stderr = io.MultiWriter(c.stderr, tail)

	command := name + " " + strings.Join(args, " ")
	slog.Debug("running build tool", "step", step, "command", command)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	errCtx := map[string]any{
		"step":    step,
		"command": command,
	}
	if s := strings.TrimSpace(tail.String()); s != "" {
		errCtx["stderr"] = s
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		code := apperrors.ErrCodeTimeout
		if errors.Is(ctxErr, context.Canceled) {
			code = apperrors.ErrCodeExternalToolFailure
		}
		return apperrors.WrapWithContext(code, fmt.Sprintf("%s interrupted", step), ctxErr, errCtx)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		errCtx["exitCode"] = exitErr.ExitCode()
	}

	msg := fmt.Sprintf("%s failed", step)
	if last := lastLine(tail.String()); last != "" {
		msg = fmt.Sprintf("%s failed: %s", step, last)
	}
	return apperrors.WrapWithContext(apperrors.ErrCodeExternalToolFailure, msg, err, errCtx)
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\r\n\t ")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
