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

// Package defaults provides centralized configuration constants for hdrpkg.
//
// This package defines timeout values, recipe defaults and package layout
// names used across the codebase.
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.StepTimeout)
//	defer cancel()
//
// Recipe defaults fill in whatever recipe.yaml leaves empty:
//
//   - VersionFile: CMakeLists.txt
//   - VersionVariable: MORE_CONCEPTS_VERSION
//   - PackageGlob: *.hpp
//   - TestToggleEnv: CONAN_RUN_TESTS
package defaults
