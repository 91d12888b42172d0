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

// Package cmake adapts the cmake command line to buildtool.Tool.
//
// The adapter runs, in order:
//
//	cmake -S <source> -B <build> [-G <generator>] [-DCMAKE_BUILD_TYPE=<type>] [-D<name>=<value>...]
//	cmake --build <build> [--config <type>]
//	cmake --build <build> --target <target> [--config <type>]
//
// With WithCTest(true) the test step runs ctest --test-dir <build> -R <target>
// instead. A failing invocation returns an error coded EXTERNAL_TOOL_FAILURE
// whose context carries the step, the command line, the exit code and the
// tail of stderr. A deadline hit while the tool runs is coded TIMEOUT.
package cmake
