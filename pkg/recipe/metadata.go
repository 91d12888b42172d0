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

package recipe

import "slices"

// RevisionMode selects how the recipe revision is derived.
type RevisionMode string

const (
	// RevisionModeSCM takes the revision from the source tree's git HEAD.
	RevisionModeSCM RevisionMode = "scm"
	// RevisionModeNone records no revision.
	RevisionModeNone RevisionMode = "none"
)

// Metadata is the descriptive part of a recipe. It is authored once and never
// changed by the engine.
type Metadata struct {
	// Name is the package name (e.g., "more_concepts").
	Name string `json:"name" yaml:"name"`

	// Description is a one-line summary of the library.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Homepage is the project home page.
	Homepage string `json:"homepage,omitempty" yaml:"homepage,omitempty"`

	// URL is the recipe source location.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// License is the SPDX license identifier.
	License string `json:"license,omitempty" yaml:"license,omitempty"`

	// Topics are free-form search tags.
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`
}

// Clone returns a deep copy of the metadata.
func (m Metadata) Clone() Metadata {
	m.Topics = slices.Clone(m.Topics)
	return m
}

// VersionSpec locates the version assignment in the build configuration.
type VersionSpec struct {
	// File is the build-configuration document, relative to the source root.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Variable is the CMake variable assigned the version.
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
}

// BuildSpec configures the external build tool.
type BuildSpec struct {
	// BuildDir is the out-of-source build directory, relative to the source root.
	BuildDir string `json:"buildDir,omitempty" yaml:"buildDir,omitempty"`

	// Generator is passed to cmake -G when set.
	Generator string `json:"generator,omitempty" yaml:"generator,omitempty"`

	// Definitions are passed to cmake as -D<key>=<value>.
	Definitions map[string]string `json:"definitions,omitempty" yaml:"definitions,omitempty"`

	// TestTarget is the target that runs the test suite.
	TestTarget string `json:"testTarget,omitempty" yaml:"testTarget,omitempty"`

	// TestToggleEnv names the environment variable enabling or disabling tests.
	TestToggleEnv string `json:"testToggleEnv,omitempty" yaml:"testToggleEnv,omitempty"`
}

// PackageSpec describes what the packaging stage copies and what consumers see.
type PackageSpec struct {
	// Glob selects the public headers to stage.
	Glob string `json:"glob,omitempty" yaml:"glob,omitempty"`

	// IncludeDirs are advertised to consumers, relative to the package root.
	IncludeDirs []string `json:"includeDirs,omitempty" yaml:"includeDirs,omitempty"`

	// LibDirs are advertised to consumers. Empty for header-only libraries.
	LibDirs []string `json:"libDirs,omitempty" yaml:"libDirs,omitempty"`

	// BinDirs are advertised to consumers. Empty for header-only libraries.
	BinDirs []string `json:"binDirs,omitempty" yaml:"binDirs,omitempty"`
}

// Spec holds the recipe's behavior.
type Spec struct {
	// HeaderOnly drops compiler, OS, arch and build type from the package identity.
	HeaderOnly bool `json:"headerOnly" yaml:"headerOnly"`

	// RevisionMode selects where the recipe revision comes from.
	RevisionMode RevisionMode `json:"revisionMode,omitempty" yaml:"revisionMode,omitempty"`

	Version VersionSpec `json:"version" yaml:"version"`
	Build   BuildSpec   `json:"build" yaml:"build"`
	Package PackageSpec `json:"package" yaml:"package"`
}
