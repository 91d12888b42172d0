/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	ocistore "oras.land/oras-go/v2/content/oci"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

// ArtifactType is the media type of packaged header sets.
const ArtifactType = "application/vnd.hdrpkg.package.v1"

// LayoutDirName is the directory, under PackageOptions.OutputDir, holding
// the OCI image layout.
const LayoutDirName = "oci-layout"

// PackageOptions configures local OCI packaging.
type PackageOptions struct {
	// SourceDir is the staged package directory.
	SourceDir string
	// OutputDir receives the OCI image layout. It must not be inside SourceDir.
	OutputDir string
	// Registry and Repository name the eventual push target.
	Registry   string
	Repository string
	// Tag is applied in the local layout.
	Tag string
	// LayerName names the package directory inside the artifact. Default ".".
	LayerName string
	// Annotations are set on the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp pins the created annotation.
	ReproducibleTimestamp string
}

// PackageResult describes a locally packaged artifact.
type PackageResult struct {
	// Digest is the manifest digest.
	Digest string
	// Reference is registry/repository:tag.
	Reference string
	// StorePath is the OCI image layout directory.
	StorePath string
}

// Package writes SourceDir as a single-layer OCI artifact into an image
// layout under OutputDir, tagged with Tag.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if opts.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}
	if opts.Registry == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "registry is required for OCI packaging")
	}
	if opts.Repository == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "repository is required for OCI packaging")
	}

	refString := fmt.Sprintf("%s/%s:%s", stripProtocol(opts.Registry), opts.Repository, opts.Tag)
	if _, err := reference.ParseNormalizedNamed(refString); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid image reference", err, map[string]any{"reference": refString})
	}

	absSource, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	if info, statErr := os.Stat(absSource); statErr != nil || !info.IsDir() {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeSourceTreeMissing,
			"package directory not found", statErr, map[string]any{"dir": absSource})
	}
	absOutput, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	fs, err := file.New(absSource)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()

	// Make tars deterministic for reproducible builds
	fs.TarReproducible = true

	name := opts.LayerName
	if name == "" {
		name = "."
	}
	layerDesc, err := fs.Add(ctx, name, ociv1.MediaTypeImageLayerGzip, absSource)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to add package directory to store", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	maps.Copy(annotations, opts.Annotations)
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to pack manifest", err)
	}
	if err := fs.Tag(ctx, manifestDesc, opts.Tag); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to tag manifest", err)
	}

	storePath := filepath.Join(absOutput, LayoutDirName)
	store, err := ocistore.New(storePath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create OCI image layout", err)
	}

	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to copy artifact into image layout", err)
	}

	slog.Info("OCI artifact packaged locally",
		"reference", refString,
		"digest", desc.Digest.String(),
		"store_path", storePath,
	)

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
		StorePath: storePath,
	}, nil
}
