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

// Package orchestrator sequences a recipe build.
//
// A run moves through a fixed set of states:
//
//	idle -> configuring -> building -> test-decision -> testing   -> done
//	                                                 \-> skip-test -/
//
// Any failure moves the run to failed, which is terminal. Before configuring,
// the version is resolved from the build configuration and recorded in the
// Result; it is never passed to the build tool.
//
// Whether the test step runs is an explicit input (Options.Tests). The CLI
// obtains it once from the environment with TestToggleFromEnv:
//
//	tests, err := orchestrator.TestToggleFromEnv("CONAN_RUN_TESTS")
//	if err != nil {
//		return err
//	}
//	res, err := orchestrator.Run(ctx, cmake.New(), orchestrator.Options{
//		SourceDir: ".",
//		Tests:     tests,
//	})
//
// Steps are invoked sequentially and never retried. Step durations and
// failures are exported as Prometheus metrics on the default registry.
package orchestrator
