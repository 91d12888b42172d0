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

// Package buildtooltest provides a recording buildtool.Tool for tests.
package buildtooltest

import (
	"context"
	"sync"

	"github.com/MiSo1289/hdrpkg/pkg/buildtool"
)

// Call is one recorded invocation.
type Call struct {
	Op  string // configure, build or test
	Arg string // source dir for configure, target for test
}

// Fake records calls and returns the configured errors.
type Fake struct {
	ConfigureErr error
	BuildErr     error
	TestErr      error

	mu    sync.Mutex
	calls []Call
}

var _ buildtool.Tool = (*Fake)(nil)

// Configure implements buildtool.Tool.
func (f *Fake) Configure(_ context.Context, sourceDir string) error {
	f.record("configure", sourceDir)
	return f.ConfigureErr
}

// Build implements buildtool.Tool.
func (f *Fake) Build(_ context.Context) error {
	f.record("build", "")
	return f.BuildErr
}

// Test implements buildtool.Tool.
func (f *Fake) Test(_ context.Context, target string) error {
	f.record("test", target)
	return f.TestErr
}

func (f *Fake) record(op, arg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, Arg: arg})
}

// Calls returns a copy of the recorded calls in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Count returns how many times op was invoked.
func (f *Fake) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded operation names in order.
func (f *Fake) Ops() []string {
	calls := f.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}
