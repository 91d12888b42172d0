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

package buildtool

import (
	"context"
	"sync"
)

// Tool is the narrow surface of an external build system. Each call blocks
// until the underlying invocation exits; a non-nil error means the step
// failed and nothing after it should run.
type Tool interface {
	// Configure prepares a build tree for the given source directory.
	Configure(ctx context.Context, sourceDir string) error

	// Build compiles the configured tree.
	Build(ctx context.Context) error

	// Test builds and runs the named test target.
	Test(ctx context.Context, target string) error
}

// TailBuffer is an io.Writer that retains only the last Max bytes written.
// It is used to keep the end of a tool's stderr for diagnostics.
type TailBuffer struct {
	Max int

	mu  sync.Mutex
	buf []byte
}

// NewTailBuffer returns a TailBuffer keeping at most max bytes.
func NewTailBuffer(max int) *TailBuffer {
	return &TailBuffer{Max: max}
}

// Write implements io.Writer. It never fails.
func (t *TailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(p)
	if t.Max <= 0 {
		return n, nil
	}
	if len(p) >= t.Max {
		t.buf = append(t.buf[:0], p[len(p)-t.Max:]...)
		return n, nil
	}
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.Max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return n, nil
}

// String returns the retained bytes.
func (t *TailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
