/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/identity"
)

// URIScheme is the URI scheme for OCI registry targets (e.g., "oci://ghcr.io/org/repo:tag").
const URIScheme = "oci://"

// Annotation keys for package metadata that has no standard OCI equivalent.
const (
	AnnotationPackageID        = "dev.hdrpkg.package.id"
	AnnotationPackageReference = "dev.hdrpkg.package.reference"
	AnnotationHeaderOnly       = "dev.hdrpkg.package.header-only"
)

// Reference represents a parsed output target, which can be either an OCI registry
// reference or a local directory path.
type Reference struct {
	// IsOCI indicates whether this is an OCI registry reference (true) or local path (false).
	IsOCI bool
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "misoio/more_concepts").
	Repository string
	// Tag is the image tag. Empty means the caller applies DefaultTag.
	Tag string
	// LocalPath is the local directory path for non-OCI output.
	LocalPath string
}

// ParseOutputTarget parses an output target string to detect OCI URI or local directory.
// For OCI URIs (oci://registry/repository:tag), it extracts the components.
// For plain paths, it treats them as local directories.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return &Reference{
			IsOCI:     false,
			LocalPath: target,
		}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// String returns the full reference string.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}

// ImageReference returns the Docker-style image reference (without oci:// scheme).
// Returns empty string for non-OCI references.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with the specified tag.
// For non-OCI references, returns the same reference unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	c := *r
	c.Tag = tag
	return &c
}

// ValidateRegistryReference checks that registry and repository form a
// valid image name. A scheme prefix on the registry is ignored.
func ValidateRegistryReference(registry, repository string) error {
	host := stripProtocol(registry)
	if host == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry is required")
	}
	if repository == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "repository is required")
	}
	name := host + "/" + repository
	if _, err := reference.ParseNormalizedNamed(name); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid registry reference", err, map[string]any{"reference": name})
	}
	return nil
}

var invalidTagChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// DefaultTag derives a tag from a package identity: "<version>-<id[:12]>".
// Characters not allowed in tags are replaced with "_".
func DefaultTag(id identity.Identity) string {
	v := invalidTagChars.ReplaceAllString(id.Version, "_")
	if v == "" || v[0] == '.' || v[0] == '-' {
		v = "v" + v
	}
	tag := v + "-" + id.ShortID()
	if len(tag) > 128 {
		tag = tag[len(tag)-128:]
	}
	return tag
}

// Annotations returns manifest annotations describing a package.
func Annotations(id identity.Identity, headerOnly bool, revision, source, license, description string) map[string]string {
	a := map[string]string{
		ociv1.AnnotationTitle:      id.Name,
		ociv1.AnnotationVersion:    id.Version,
		AnnotationPackageID:        id.ID,
		AnnotationPackageReference: id.Reference(),
		AnnotationHeaderOnly:       fmt.Sprintf("%t", headerOnly),
	}
	if revision != "" {
		a[ociv1.AnnotationRevision] = revision
	}
	if source != "" {
		a[ociv1.AnnotationSource] = source
	}
	if license != "" {
		a[ociv1.AnnotationLicenses] = license
	}
	if description != "" {
		a[ociv1.AnnotationDescription] = description
	}
	return a
}

// OutputConfig configures the OCI package and push workflow.
type OutputConfig struct {
	// SourceDir is the staged package directory.
	SourceDir string
	// OutputDir is where the local OCI image layout is created.
	OutputDir string
	// Reference contains the parsed OCI registry reference.
	Reference *Reference
	// LayerName names the package directory inside the artifact.
	LayerName string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Annotations are manifest annotations.
	Annotations map[string]string
	// ReproducibleTimestamp pins the created annotation.
	ReproducibleTimestamp string
}

// PackageAndPushResult contains the result of a successful package and push operation.
type PackageAndPushResult struct {
	// Digest is the SHA256 digest of the pushed artifact.
	Digest string `json:"digest" yaml:"digest"`
	// Reference is the full image reference (registry/repository:tag).
	Reference string `json:"reference" yaml:"reference"`
	// StorePath is the path to the local OCI Image Layout directory.
	StorePath string `json:"storePath" yaml:"storePath"`
}

// PackageAndPush packages a directory as an OCI artifact and pushes it to a registry.
func PackageAndPush(ctx context.Context, cfg OutputConfig) (*PackageAndPushResult, error) {
	if cfg.Reference == nil || !cfg.Reference.IsOCI {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required for PackageAndPush")
	}
	if cfg.Reference.Tag == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}

	absSourceDir, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	absOutputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve output directory", err)
	}

	packageResult, err := Package(ctx, PackageOptions{
		SourceDir:             absSourceDir,
		OutputDir:             absOutputDir,
		Registry:              cfg.Reference.Registry,
		Repository:            cfg.Reference.Repository,
		Tag:                   cfg.Reference.Tag,
		LayerName:             cfg.LayerName,
		Annotations:           cfg.Annotations,
		ReproducibleTimestamp: cfg.ReproducibleTimestamp,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("pushing OCI artifact to remote registry",
		"registry", cfg.Reference.Registry,
		"repository", cfg.Reference.Repository,
		"tag", cfg.Reference.Tag,
	)

	pushResult, err := PushFromStore(ctx, packageResult.StorePath, PushOptions{
		Registry:    cfg.Reference.Registry,
		Repository:  cfg.Reference.Repository,
		Tag:         cfg.Reference.Tag,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("OCI artifact pushed successfully",
		"reference", pushResult.Reference,
		"digest", pushResult.Digest,
	)

	return &PackageAndPushResult{
		Digest:    pushResult.Digest,
		Reference: pushResult.Reference,
		StorePath: packageResult.StorePath,
	}, nil
}
