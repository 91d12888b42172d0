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

package defaults

import "time"

// Build tool timeouts. A zero step timeout disables the per-step deadline.
const (
	// StepTimeout bounds a single configure, build or test invocation.
	StepTimeout = 30 * time.Minute

	// DiagnosticTailBytes is how much of a failed tool's stderr is kept in
	// the surfaced error.
	DiagnosticTailBytes = 4096
)

// Registry timeouts for OCI operations.
const (
	// PushTimeout is the maximum duration for pushing a package to a registry.
	PushTimeout = 5 * time.Minute
)
