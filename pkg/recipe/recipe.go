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

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/MiSo1289/hdrpkg/pkg/defaults"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/header"
)

const (
	// Kind is the only recognized recipe kind.
	Kind = header.KindRecipe
	// APIVersion is the current recipe schema version.
	APIVersion = header.APIVersion
)

//go:embed data/more_concepts.yaml
var defaultRecipeData []byte

// Recipe is a parsed recipe.yaml document.
type Recipe struct {
	header.Header `yaml:",inline"`

	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Spec     Spec     `json:"spec" yaml:"spec"`
}

// Default returns the built-in more_concepts recipe.
func Default() *Recipe {
	r, err := Parse(defaultRecipeData)
	if err != nil {
		panic(fmt.Sprintf("embedded recipe is invalid: %v", err))
	}
	return r
}

// Parse decodes a recipe document, fills defaults and validates it.
// Unknown fields are rejected so typos surface instead of being ignored.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to decode recipe", err)
	}

	r.applyDefaults()

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and parses the recipe at path.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, fmt.Sprintf("recipe %s not found", path), err)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to read recipe %s", path), err)
	}
	return Parse(data)
}

// LoadOrDefault loads path when it is set, otherwise the recipe file in
// sourceDir, falling back to the built-in recipe when that does not exist.
func LoadOrDefault(path, sourceDir string) (*Recipe, error) {
	if path != "" {
		return Load(path)
	}

	candidate := filepath.Join(sourceDir, defaults.RecipeFileName)
	r, err := Load(candidate)
	if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		slog.Debug("no recipe file in source tree, using built-in recipe", "path", candidate)
		return Default(), nil
	}
	return r, err
}

func (r *Recipe) applyDefaults() {
	r.Header.ApplyDefaults(Kind)
	if r.Spec.RevisionMode == "" {
		r.Spec.RevisionMode = RevisionModeSCM
	}
	if r.Spec.Version.File == "" {
		r.Spec.Version.File = defaults.VersionFile
	}
	if r.Spec.Version.Variable == "" {
		r.Spec.Version.Variable = defaults.VersionVariable
	}
	if r.Spec.Build.BuildDir == "" {
		r.Spec.Build.BuildDir = defaults.BuildDir
	}
	if r.Spec.Build.TestTarget == "" {
		r.Spec.Build.TestTarget = defaults.TestTarget
	}
	if r.Spec.Build.TestToggleEnv == "" {
		r.Spec.Build.TestToggleEnv = defaults.TestToggleEnv
	}
	if r.Spec.Package.Glob == "" {
		r.Spec.Package.Glob = defaults.PackageGlob
	}
	if len(r.Spec.Package.IncludeDirs) == 0 {
		r.Spec.Package.IncludeDirs = []string{defaults.IncludeDir}
	}
}

// Validate checks the recipe for values the engine cannot work with.
func (r *Recipe) Validate() error {
	if err := r.Header.Check(Kind); err != nil {
		return err
	}
	if r.Metadata.Name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "recipe metadata.name is required")
	}
	switch r.Spec.RevisionMode {
	case RevisionModeSCM, RevisionModeNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid revisionMode %q (must be %q or %q)", r.Spec.RevisionMode, RevisionModeSCM, RevisionModeNone))
	}
	if filepath.IsAbs(r.Spec.Build.BuildDir) {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "spec.build.buildDir must be relative to the source root")
	}
	if r.Spec.HeaderOnly && (len(r.Spec.Package.LibDirs) > 0 || len(r.Spec.Package.BinDirs) > 0) {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "header-only recipes cannot declare libDirs or binDirs")
	}
	return nil
}

// VersionFilePath returns the absolute-or-relative path of the build
// configuration document for a source root.
func (r *Recipe) VersionFilePath(sourceDir string) string {
	if filepath.IsAbs(r.Spec.Version.File) {
		return r.Spec.Version.File
	}
	return filepath.Join(sourceDir, r.Spec.Version.File)
}

// BuildDirPath returns the build directory for a source root.
func (r *Recipe) BuildDirPath(sourceDir string) string {
	return filepath.Join(sourceDir, r.Spec.Build.BuildDir)
}

// Definitions returns the cmake definitions sorted by key.
func (r *Recipe) Definitions() []string {
	keys := slices.Sorted(maps.Keys(r.Spec.Build.Definitions))
	defs := make([]string, 0, len(keys))
	for _, k := range keys {
		defs = append(defs, k+"="+r.Spec.Build.Definitions[k])
	}
	return defs
}
