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

package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const variable = "MORE_CONCEPTS_VERSION"

const cmakeLists = `cmake_minimum_required(VERSION 3.16)

set(MORE_CONCEPTS_VERSION 0.1.0)
project(more_concepts VERSION ${MORE_CONCEPTS_VERSION} LANGUAGES CXX)

add_library(more_concepts INTERFACE)
`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "set(MORE_CONCEPTS_VERSION 1.2.3)", "1.2.3"},
		{"full document", cmakeLists, "0.1.0"},
		{"surrounding whitespace", "set(MORE_CONCEPTS_VERSION    1.2.3   )", "1.2.3"},
		{"indented", "    set(MORE_CONCEPTS_VERSION 2.0)\n", "2.0"},
		{"value runs to last paren", "set(MORE_CONCEPTS_VERSION $(x))", "$(x)"},
		{"trailing text after paren", "set(MORE_CONCEPTS_VERSION 1.0) # release", "1.0"},
		{"crlf line endings", "project(x)\r\nset(MORE_CONCEPTS_VERSION 3.1.4)\r\n", "3.1.4"},
		{"non numeric token kept verbatim", "set(MORE_CONCEPTS_VERSION dev-snapshot)", "dev-snapshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.content), variable)
			require.NoError(t, err)
			assert.True(t, v.Known)
			assert.Equal(t, tt.want, v.Value)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty document", ""},
		{"no assignment", "project(more_concepts LANGUAGES CXX)\n"},
		{"other variable", "set(OTHER_VERSION 1.0)\n"},
		{"no space after variable", "set(MORE_CONCEPTS_VERSION)\n"},
		{"unclosed", "set(MORE_CONCEPTS_VERSION 1.0\n)\n"},
		{"empty value", "set(MORE_CONCEPTS_VERSION   )\n"},
		{"assigned twice", "set(MORE_CONCEPTS_VERSION 1.0)\nset(MORE_CONCEPTS_VERSION 1.0)\n"},
		{"case differs", "SET(MORE_CONCEPTS_VERSION 1.0)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.content), variable)
			require.Error(t, err)
			assert.True(t, IsMalformed(err), "expected malformed, got %v", err)
			assert.False(t, IsUnreadable(err))
			assert.Equal(t, Unknown, v)
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	first, err := Parse([]byte(cmakeLists), variable)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Parse([]byte(cmakeLists), variable)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("reads version from file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		require.NoError(t, os.WriteFile(path, []byte(cmakeLists), 0o644))

		v, err := Resolve(path, variable)
		require.NoError(t, err)
		assert.Equal(t, Version{Value: "0.1.0", Known: true}, v)
	})

	t.Run("missing file is unreadable", func(t *testing.T) {
		t.Parallel()
		v, err := Resolve(filepath.Join(t.TempDir(), "CMakeLists.txt"), variable)
		require.Error(t, err)
		assert.True(t, IsUnreadable(err))
		assert.False(t, IsMalformed(err))
		assert.Equal(t, Unknown, v)
		assert.Equal(t, UnknownVersion, v.String())
	})

	t.Run("directory is unreadable", func(t *testing.T) {
		t.Parallel()
		v, err := Resolve(t.TempDir(), variable)
		require.Error(t, err)
		assert.True(t, IsUnreadable(err))
		assert.Equal(t, Unknown, v)
	})

	t.Run("pattern absent is malformed", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		require.NoError(t, os.WriteFile(path, []byte("project(x)\n"), 0o644))

		_, err := Resolve(path, variable)
		require.Error(t, err)
		assert.True(t, IsMalformed(err))
		assert.Contains(t, err.Error(), "no set(MORE_CONCEPTS_VERSION ...) assignment found")
	})
}

func TestResolveBestEffort(t *testing.T) {
	t.Run("unreadable collapses to unknown", func(t *testing.T) {
		v, err := ResolveBestEffort(filepath.Join(t.TempDir(), "absent.txt"), variable)
		require.NoError(t, err)
		assert.Equal(t, Unknown, v)
	})

	t.Run("malformed still fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CMakeLists.txt")
		require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0o644))

		_, err := ResolveBestEffort(path, variable)
		require.Error(t, err)
		assert.True(t, IsMalformed(err))
	})
}
