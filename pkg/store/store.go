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

package store

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"

	"github.com/MiSo1289/hdrpkg/pkg/defaults"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/identity"
	"github.com/MiSo1289/hdrpkg/pkg/version"
)

// Store keeps staged packages on the local filesystem under
// <Root>/<name>/<version>/<id>.
type Store struct {
	Root string
}

// Entry is a package held by the store.
type Entry struct {
	Name    string        `json:"name" yaml:"name"`
	Version string        `json:"version" yaml:"version"`
	ID      string        `json:"id" yaml:"id"`
	Path    string        `json:"path" yaml:"path"`
	Digest  digest.Digest `json:"digest" yaml:"digest"`
}

// DefaultRoot returns the store location under the user's XDG cache
// directory.
func DefaultRoot() string {
	return filepath.Join(xdg.CacheHome, filepath.FromSlash(defaults.StoreDirName))
}

// New returns a store rooted at root, or at DefaultRoot when root is empty.
func New(root string) *Store {
	if root == "" {
		root = DefaultRoot()
	}
	return &Store{Root: root}
}

// Path returns where the package for id lives, whether or not it exists.
func (s *Store) Path(id identity.Identity) string {
	return filepath.Join(s.Root, id.Name, id.Version, id.ID)
}

// Put copies the staged package in dir into the store. When the store
// already holds identical content for id nothing is written; different
// content under the same id replaces the old entry.
func (s *Store) Put(ctx context.Context, id identity.Identity, dir string) (*Entry, error) {
	if err := validateIdentity(id); err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeSourceTreeMissing,
			"staged package directory not found", err, map[string]any{"dir": dir})
	}

	want, err := Digest(ctx, dir)
	if err != nil {
		return nil, err
	}

	dest := s.Path(id)
	entry := &Entry{Name: id.Name, Version: id.Version, ID: id.ID, Path: dest, Digest: want}

	if _, err := os.Stat(dest); err == nil {
		have, err := Digest(ctx, dest)
		if err == nil && have == want {
			slog.Debug("package already in store", "reference", id.Reference(), "digest", want)
			return entry, nil
		}
		slog.Warn("replacing stored package with different content",
			"reference", id.Reference(), "old", have, "new", want)
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to create store directory", err, map[string]any{"path": parent})
	}

	tmp := filepath.Join(parent, ".tmp-"+id.ShortID()+"-"+uuid.NewString())
	if err := copyTree(ctx, dir, tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to copy package into store", err, map[string]any{"dir": dir})
	}
	if err := os.RemoveAll(dest); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to remove previous package", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to move package into store", err)
	}

	slog.Info("package stored", "reference", id.Reference(), "path", dest, "digest", want)
	return entry, nil
}

// Lookup reports where the package for id is stored and whether it exists.
func (s *Store) Lookup(id identity.Identity) (string, bool) {
	p := s.Path(id)
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return p, false
	}
	return p, true
}

// Get returns the stored entry for id with its content digest.
func (s *Store) Get(ctx context.Context, id identity.Identity) (*Entry, error) {
	p, ok := s.Lookup(id)
	if !ok {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			"package not in store", map[string]any{"reference": id.Reference()})
	}
	d, err := Digest(ctx, p)
	if err != nil {
		return nil, err
	}
	return &Entry{Name: id.Name, Version: id.Version, ID: id.ID, Path: p, Digest: d}, nil
}

// Remove deletes the package for id. Removing a missing package is not an
// error.
func (s *Store) Remove(id identity.Identity) error {
	if err := validateIdentity(id); err != nil {
		return err
	}
	if err := os.RemoveAll(s.Path(id)); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to remove package", err)
	}
	return nil
}

// Versions lists the stored versions of a package, newest first.
func (s *Store) Versions(name string) ([]string, error) {
	versions, err := listDirs(filepath.Join(s.Root, name))
	if err != nil {
		return nil, err
	}
	version.SortDescending(versions)
	return versions, nil
}

// IDs lists the stored identities for one version of a package, sorted.
func (s *Store) IDs(name, ver string) ([]string, error) {
	return listDirs(filepath.Join(s.Root, name, ver))
}

// Digest computes a content digest over every file in dir: each file's
// sha256 and slash-separated relative path, in path order.
func Digest(ctx context.Context, dir string) (digest.Digest, error) {
	type fileSum struct {
		path string
		sum  digest.Digest
	}
	var sums []fileSum

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		sum, err := digest.Canonical.FromReader(f)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		sums = append(sums, fileSum{path: filepath.ToSlash(rel), sum: sum})
		return nil
	})
	if err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to digest package", err, map[string]any{"dir": dir})
	}

	sort.Slice(sums, func(i, j int) bool { return sums[i].path < sums[j].path })

	digester := digest.Canonical.Digester()
	for _, s := range sums {
		fmt.Fprintf(digester.Hash(), "%s  %s\n", s.sum.Encoded(), s.path)
	}
	return digester.Digest(), nil
}

func validateIdentity(id identity.Identity) error {
	for field, v := range map[string]string{"name": id.Name, "version": id.Version, "id": id.ID} {
		if v == "" || v == "." || v == ".." || strings.ContainsAny(v, `/\`) {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"identity cannot be used as a store path", map[string]any{field: v})
		}
	}
	return nil
}

func listDirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to list store", err, map[string]any{"path": path})
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
