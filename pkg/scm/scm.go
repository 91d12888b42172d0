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
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

// Revision identifies the state of a recipe source tree.
type Revision struct {
	// Commit is the full hash of HEAD.
	Commit string `json:"commit" yaml:"commit"`

	// Branch is the short branch name, empty on a detached HEAD.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`

	// Tags are the tags pointing at HEAD, sorted.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Dirty is set when the worktree has changes, untracked files included.
	Dirty bool `json:"dirty" yaml:"dirty"`
}

// String renders the commit, suffixed with "-dirty" for modified trees.
func (r Revision) String() string {
	if r.Dirty {
		return r.Commit + "-dirty"
	}
	return r.Commit
}

// Short returns the first 12 characters of the commit.
func (r Revision) Short() string {
	if len(r.Commit) < 12 {
		return r.Commit
	}
	return r.Commit[:12]
}

// Describe reads the revision of the git repository containing dir. Parent
// directories are searched for the repository root. A directory outside any
// repository, or a repository without commits, is NOT_FOUND.
func Describe(dir string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
				"not a git repository", err, map[string]any{"dir": dir})
		}
		return Revision{}, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to open git repository", err, map[string]any{"dir": dir})
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Revision{}, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
				"repository has no commits", err, map[string]any{"dir": dir})
		}
		return Revision{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve HEAD", err)
	}

	rev := Revision{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	tags, err := tagsAt(repo, head.Hash())
	if err != nil {
		return Revision{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to list tags", err)
	}
	rev.Tags = tags

	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no worktree to be dirty
		if errors.Is(err, git.ErrIsBareRepository) {
			return rev, nil
		}
		return Revision{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to open worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return Revision{}, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to read worktree status", err)
	}
	rev.Dirty = !status.IsClean()

	slog.Debug("resolved source revision", "dir", dir, "commit", rev.Commit, "dirty", rev.Dirty)
	return rev, nil
}

func tagsAt(repo *git.Repository, hash plumbing.Hash) ([]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if obj, err := repo.TagObject(ref.Hash()); err == nil {
			target = obj.Target
		}
		if target == hash {
			tags = append(tags, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	sort.Strings(tags)
	return tags, nil
}
