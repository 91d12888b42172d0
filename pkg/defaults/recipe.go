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

// Recipe defaults applied when recipe.yaml leaves a field empty.
const (
	// RecipeFileName is the recipe file looked up in the source root.
	RecipeFileName = "recipe.yaml"

	// VersionFile is the build-configuration document, relative to the source root.
	VersionFile = "CMakeLists.txt"

	// VersionVariable is the CMake variable holding the library version.
	VersionVariable = "MORE_CONCEPTS_VERSION"

	// PackageGlob selects the public headers copied into the package.
	PackageGlob = "*.hpp"

	// TestTarget is the build-tool target that runs the test suite.
	TestTarget = "test"

	// TestToggleEnv names the environment variable that enables or disables tests.
	TestToggleEnv = "CONAN_RUN_TESTS"

	// BuildDir is the out-of-source build directory, relative to the source root.
	BuildDir = "build"
)

// Package layout defaults.
const (
	// ManifestFileName is the package manifest written next to the staged headers.
	ManifestFileName = "package.yaml"

	// IncludeDir is the include directory advertised to package consumers.
	IncludeDir = "include"

	// StoreDirName is the directory under the user cache dir holding stored packages.
	StoreDirName = "hdrpkg/packages"
)
