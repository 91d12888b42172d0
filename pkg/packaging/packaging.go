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

package packaging

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moby/patternmatcher"

	"github.com/MiSo1289/hdrpkg/pkg/checksum"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

// Options configure a full staging run.
type Options struct {
	// SourceRoot is the tree headers are copied from. Required.
	SourceRoot string

	// OutputRoot receives the package. Created if absent.
	OutputRoot string

	// Glob selects headers, e.g. "*.hpp" or "include/**/*.hpp".
	Glob string

	// Exclude lists patterns removed from the selection.
	Exclude []string

	// Checksums writes checksums.txt covering the staged files.
	Checksums bool

	// Manifest, when set, is completed with the staged file list and written
	// as package.yaml.
	Manifest *Manifest
}

// Result describes what a staging run placed in the output root.
type Result struct {
	// Files are the staged headers, slash-separated, relative to OutputRoot.
	Files []string `json:"files" yaml:"files"`

	// Copied counts files written this run; Unchanged counts destinations
	// that already held identical content.
	Copied    int `json:"copied" yaml:"copied"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`

	ManifestPath string `json:"manifestPath,omitempty" yaml:"manifestPath,omitempty"`
	ChecksumPath string `json:"checksumPath,omitempty" yaml:"checksumPath,omitempty"`
}

// StageHeaders copies every file under sourceRoot matching includeGlob into
// outputRoot, preserving relative paths, and returns the number of files in
// the header set.
//
// Staging is additive: files already in outputRoot are never removed, and a
// destination whose content already matches is left untouched. No matches is
// a valid outcome and returns 0.
func StageHeaders(ctx context.Context, sourceRoot, outputRoot, includeGlob string) (int, error) {
	res, err := stage(ctx, sourceRoot, outputRoot, includeGlob, nil)
	if err != nil {
		return 0, err
	}
	return len(res.Files), nil
}

// Stage copies headers as StageHeaders does, then writes the optional
// manifest and checksums file.
func Stage(ctx context.Context, opts Options) (*Result, error) {
	res, err := stage(ctx, opts.SourceRoot, opts.OutputRoot, opts.Glob, opts.Exclude)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(res.Files)+1)
	for _, f := range res.Files {
		written = append(written, filepath.Join(opts.OutputRoot, filepath.FromSlash(f)))
	}

	if opts.Manifest != nil {
		opts.Manifest.Files = append([]string(nil), res.Files...)
		path, err := WriteManifest(opts.OutputRoot, opts.Manifest)
		if err != nil {
			return nil, err
		}
		res.ManifestPath = path
		written = append(written, path)
	}

	if opts.Checksums {
		if err := checksum.GenerateChecksums(ctx, opts.OutputRoot, written); err != nil {
			return nil, err
		}
		res.ChecksumPath = checksum.GetChecksumFilePath(opts.OutputRoot)
	}

	return res, nil
}

// Match returns the header set: files under sourceRoot matching the glob,
// slash-separated and sorted. outputRoot, if nested in sourceRoot, is not
// searched.
func Match(ctx context.Context, sourceRoot, outputRoot, includeGlob string, exclude []string) ([]string, error) {
	if err := checkSourceRoot(sourceRoot); err != nil {
		return nil, err
	}

	pm, err := newMatcher(includeGlob, exclude)
	if err != nil {
		return nil, err
	}

	skip := ""
	if outputRoot != "" {
		if abs, err := filepath.Abs(outputRoot); err == nil {
			skip = abs
		}
	}

	var files []string
	err = filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if skip != "" && path != sourceRoot {
				if abs, err := filepath.Abs(path); err == nil && abs == skip {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !isRegular(path, d) {
			return nil
		}

		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return err
		}
		ok, err := pm.MatchesOrParentMatches(rel)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "header enumeration cancelled", ctxErr)
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to enumerate source tree", err, map[string]any{"source": sourceRoot})
	}

	sort.Strings(files)
	return files, nil
}

func stage(ctx context.Context, sourceRoot, outputRoot, includeGlob string, exclude []string) (*Result, error) {
	if outputRoot == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "output root is required")
	}

	files, err := Match(ctx, sourceRoot, outputRoot, includeGlob, exclude)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to create output root", err, map[string]any{"output": outputRoot})
	}

	res := &Result{Files: files}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "staging cancelled", err)
		}

		src := filepath.Join(sourceRoot, filepath.FromSlash(rel))
		dst := filepath.Join(outputRoot, filepath.FromSlash(rel))
		copied, n, err := copyIfChanged(src, dst)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
				"failed to stage header", err, map[string]any{"file": rel})
		}
		if copied {
			res.Copied++
			stagedBytes.Add(float64(n))
		} else {
			res.Unchanged++
		}
	}

	stagedFiles.WithLabelValues("copied").Add(float64(res.Copied))
	stagedFiles.WithLabelValues("unchanged").Add(float64(res.Unchanged))

	slog.Info("headers staged",
		"source", sourceRoot,
		"output", outputRoot,
		"glob", includeGlob,
		"matched", len(files),
		"copied", res.Copied,
		"unchanged", res.Unchanged)

	return res, nil
}

func checkSourceRoot(sourceRoot string) error {
	info, err := os.Stat(sourceRoot)
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeSourceTreeMissing,
			"source tree does not exist", err, map[string]any{"source": sourceRoot})
	}
	if !info.IsDir() {
		return apperrors.NewWithContext(apperrors.ErrCodeSourceTreeMissing,
			"source tree is not a directory", map[string]any{"source": sourceRoot})
	}
	return nil
}

// newMatcher builds the matcher for a glob. A pattern without a separator
// applies to file names at any depth.
func newMatcher(includeGlob string, exclude []string) (*patternmatcher.PatternMatcher, error) {
	if strings.TrimSpace(includeGlob) == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "include glob is required")
	}

	patterns := []string{anyDepth(includeGlob)}
	for _, e := range exclude {
		if e = strings.TrimSpace(e); e != "" {
			patterns = append(patterns, "!"+anyDepth(e))
		}
	}

	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid glob", err, map[string]any{"glob": includeGlob})
	}
	return pm, nil
}

func anyDepth(pattern string) string {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	if strings.Contains(pattern, "/") {
		return filepath.FromSlash(strings.TrimPrefix(pattern, "/"))
	}
	return filepath.FromSlash("**/" + pattern)
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// copyIfChanged writes src to dst unless dst already has the same bytes.
func copyIfChanged(src, dst string) (bool, int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return false, 0, err
	}

	if existing, err := os.ReadFile(dst); err == nil && bytes.Equal(existing, data) {
		return false, 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return false, 0, err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, 0, err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // headers are public
		os.Remove(tmpName)
		return false, 0, err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return false, 0, fmt.Errorf("replace %s: %w", dst, err)
	}
	return true, len(data), nil
}
