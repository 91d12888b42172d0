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

package scm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

func initRepo(t *testing.T) (string, *git.Repository, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "include"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("set(MORE_CONCEPTS_VERSION 0.1.0)\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("CMakeLists.txt")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)
	return dir, repo, hash.String()
}

func TestRevisionClean(t *testing.T) {
	t.Parallel()

	dir, _, commit := initRepo(t)

	rev, err := Describe(dir)
	require.NoError(t, err)
	assert.Equal(t, commit, rev.Commit)
	assert.False(t, rev.Dirty)
	assert.Equal(t, "master", rev.Branch)
	assert.Equal(t, commit, rev.String())
	assert.Equal(t, commit[:12], rev.Short())
}

func TestRevisionDetectsParentRepository(t *testing.T) {
	t.Parallel()

	dir, _, commit := initRepo(t)

	rev, err := Describe(filepath.Join(dir, "include"))
	require.NoError(t, err)
	assert.Equal(t, commit, rev.Commit)
}

func TestRevisionDirty(t *testing.T) {
	t.Parallel()

	dir, _, commit := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("set(MORE_CONCEPTS_VERSION 0.2.0)\n"), 0o644))

	rev, err := Describe(dir)
	require.NoError(t, err)
	assert.True(t, rev.Dirty)
	assert.Equal(t, commit+"-dirty", rev.String())
}

func TestRevisionTags(t *testing.T) {
	t.Parallel()

	dir, repo, commit := initRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)

	_, err = repo.CreateTag("v0.1.0", head.Hash(), nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("release", head.Hash(), &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(1700000000, 0)},
		Message: "release",
	})
	require.NoError(t, err)

	rev, err := Describe(dir)
	require.NoError(t, err)
	assert.Equal(t, commit, rev.Commit)
	assert.Equal(t, []string{"release", "v0.1.0"}, rev.Tags)
}

func TestRevisionNotARepository(t *testing.T) {
	t.Parallel()

	_, err := Describe(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestRevisionNoCommits(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = Describe(dir)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}
