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
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MiSo1289/hdrpkg/pkg/defaults"
	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/header"
	"github.com/MiSo1289/hdrpkg/pkg/identity"
	"github.com/MiSo1289/hdrpkg/pkg/recipe"
)

// Manifest describes a staged package to its consumers. It carries no
// timestamps so re-staging reproduces it exactly.
type Manifest struct {
	header.Header `yaml:",inline"`

	Name        string            `json:"name" yaml:"name"`
	Version     string            `json:"version" yaml:"version"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	License     string            `json:"license,omitempty" yaml:"license,omitempty"`
	Homepage    string            `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	ID          string            `json:"id" yaml:"id"`
	Reference   string            `json:"reference" yaml:"reference"`
	Revision    string            `json:"revision,omitempty" yaml:"revision,omitempty"`
	HeaderOnly  bool              `json:"headerOnly" yaml:"headerOnly"`
	Settings    identity.Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	IncludeDirs []string          `json:"includeDirs" yaml:"includeDirs"`
	LibDirs     []string          `json:"libDirs" yaml:"libDirs"`
	BinDirs     []string          `json:"binDirs" yaml:"binDirs"`
	Files       []string          `json:"files" yaml:"files"`
}

// NewManifest fills a manifest from a recipe and the package identity.
// Header-only packages advertise no library or binary directories.
func NewManifest(r *recipe.Recipe, id identity.Identity, revision string) *Manifest {
	m := &Manifest{
		Header:      header.New(header.KindPackage),
		Name:        id.Name,
		Version:     id.Version,
		Description: r.Metadata.Description,
		License:     r.Metadata.License,
		Homepage:    r.Metadata.Homepage,
		ID:          id.ID,
		Reference:   id.Reference(),
		Revision:    revision,
		HeaderOnly:  r.Spec.HeaderOnly,
		Settings:    id.Settings,
		IncludeDirs: append([]string{}, r.Spec.Package.IncludeDirs...),
		LibDirs:     []string{},
		BinDirs:     []string{},
		Files:       []string{},
	}
	if !r.Spec.HeaderOnly {
		m.LibDirs = append(m.LibDirs, r.Spec.Package.LibDirs...)
		m.BinDirs = append(m.BinDirs, r.Spec.Package.BinDirs...)
	}
	return m
}

// WriteManifest writes m to package.yaml in dir and returns its path.
func WriteManifest(dir string, m *Manifest) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode manifest", err)
	}
	if err := enc.Close(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode manifest", err)
	}

	path := filepath.Join(dir, defaults.ManifestFileName)
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, buf.Bytes()) {
		return path, nil
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // manifest is public
		return "", apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to write manifest", err, map[string]any{"path": path})
	}
	return path, nil
}

// ReadManifest loads package.yaml from a staged package directory.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, defaults.ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
				"package manifest not found", err, map[string]any{"path": path})
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to read package manifest", err, map[string]any{"path": path})
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid package manifest", err, map[string]any{"path": path})
	}
	if err := m.Header.Check(header.KindPackage); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"not a package manifest", err, map[string]any{"path": path})
	}
	return &m, nil
}
