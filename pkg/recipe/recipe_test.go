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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiSo1289/hdrpkg/pkg/defaults"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

func TestDefault(t *testing.T) {
	r := Default()

	assert.Equal(t, "more_concepts", r.Metadata.Name)
	assert.Equal(t, "MIT", r.Metadata.License)
	assert.Equal(t, "https://github.com/MiSo1289/more_concepts", r.Metadata.Homepage)
	assert.True(t, r.Spec.HeaderOnly)
	assert.Equal(t, RevisionModeSCM, r.Spec.RevisionMode)
	assert.Equal(t, "MORE_CONCEPTS_VERSION", r.Spec.Version.Variable)
	assert.Equal(t, "*.hpp", r.Spec.Package.Glob)
	assert.Equal(t, []string{"include"}, r.Spec.Package.IncludeDirs)
	assert.Empty(t, r.Spec.Package.LibDirs)
	assert.Empty(t, r.Spec.Package.BinDirs)
}

func TestParseAppliesDefaults(t *testing.T) {
	r, err := Parse([]byte("metadata:\n  name: tiny\nspec:\n  headerOnly: true\n"))
	require.NoError(t, err)

	assert.Equal(t, Kind, r.Kind)
	assert.Equal(t, APIVersion, r.APIVersion)
	assert.Equal(t, defaults.VersionFile, r.Spec.Version.File)
	assert.Equal(t, defaults.VersionVariable, r.Spec.Version.Variable)
	assert.Equal(t, defaults.BuildDir, r.Spec.Build.BuildDir)
	assert.Equal(t, defaults.TestTarget, r.Spec.Build.TestTarget)
	assert.Equal(t, defaults.TestToggleEnv, r.Spec.Build.TestToggleEnv)
	assert.Equal(t, defaults.PackageGlob, r.Spec.Package.Glob)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing name", "spec:\n  headerOnly: true\n"},
		{"wrong kind", "kind: bundle\nmetadata:\n  name: x\n"},
		{"wrong apiVersion", "apiVersion: v2\nmetadata:\n  name: x\n"},
		{"unknown field", "metadata:\n  name: x\n  maintainer: me\n"},
		{"bad revision mode", "metadata:\n  name: x\nspec:\n  revisionMode: hash\n"},
		{"absolute build dir", "metadata:\n  name: x\nspec:\n  build:\n    buildDir: /tmp/build\n"},
		{"header-only with libs", "metadata:\n  name: x\nspec:\n  headerOnly: true\n  package:\n    libDirs: [lib]\n"},
		{"not yaml", "::::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("falls back to built-in recipe", func(t *testing.T) {
		r, err := LoadOrDefault("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "more_concepts", r.Metadata.Name)
	})

	t.Run("prefers recipe file in source tree", func(t *testing.T) {
		dir := t.TempDir()
		data := "metadata:\n  name: local_lib\nspec:\n  headerOnly: true\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, defaults.RecipeFileName), []byte(data), 0o644))

		r, err := LoadOrDefault("", dir)
		require.NoError(t, err)
		assert.Equal(t, "local_lib", r.Metadata.Name)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"), ".")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
	})
}

func TestPaths(t *testing.T) {
	r := Default()

	assert.Equal(t, filepath.Join("/src", "CMakeLists.txt"), r.VersionFilePath("/src"))
	assert.Equal(t, filepath.Join("/src", "build"), r.BuildDirPath("/src"))

	r.Spec.Version.File = "/elsewhere/CMakeLists.txt"
	assert.Equal(t, "/elsewhere/CMakeLists.txt", r.VersionFilePath("/src"))
}

func TestDefinitionsSorted(t *testing.T) {
	r := Default()
	r.Spec.Build.Definitions = map[string]string{
		"MORE_CONCEPTS_BUILD_TESTS": "ON",
		"CMAKE_CXX_STANDARD":        "20",
	}

	assert.Equal(t, []string{"CMAKE_CXX_STANDARD=20", "MORE_CONCEPTS_BUILD_TESTS=ON"}, r.Definitions())
}

func TestMetadataClone(t *testing.T) {
	m := Metadata{Name: "x", Topics: []string{"a"}}
	c := m.Clone()
	c.Topics[0] = "b"

	assert.Equal(t, "a", m.Topics[0])
}
