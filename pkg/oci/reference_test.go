/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"strings"
	"testing"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/MiSo1289/hdrpkg/pkg/identity"
	"github.com/MiSo1289/hdrpkg/pkg/recipe"
)

func TestParseOutputTarget(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantIsOCI bool
		wantReg   string
		wantRepo  string
		wantTag   string
		wantDir   string
		wantErr   bool
	}{
		{
			name:    "local directory relative",
			input:   "./package-out",
			wantDir: "./package-out",
		},
		{
			name:    "local directory absolute",
			input:   "/tmp/packages",
			wantDir: "/tmp/packages",
		},
		{
			name:      "OCI with tag",
			input:     "oci://ghcr.io/misoio/more_concepts:0.1.0",
			wantIsOCI: true,
			wantReg:   "ghcr.io",
			wantRepo:  "misoio/more_concepts",
			wantTag:   "0.1.0",
		},
		{
			name:      "OCI without tag returns empty (caller applies default)",
			input:     "oci://ghcr.io/misoio/more_concepts",
			wantIsOCI: true,
			wantReg:   "ghcr.io",
			wantRepo:  "misoio/more_concepts",
		},
		{
			name:      "OCI with port and tag",
			input:     "oci://localhost:5000/test/headers:v1",
			wantIsOCI: true,
			wantReg:   "localhost:5000",
			wantRepo:  "test/headers",
			wantTag:   "v1",
		},
		{
			name:      "OCI deeply nested repository",
			input:     "oci://ghcr.io/org/team/project/headers:latest",
			wantIsOCI: true,
			wantReg:   "ghcr.io",
			wantRepo:  "org/team/project/headers",
			wantTag:   "latest",
		},
		{
			name:    "OCI invalid reference",
			input:   "oci://",
			wantErr: true,
		},
		{
			name:    "OCI invalid characters",
			input:   "oci://ghcr.io/INVALID/Headers:v1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseOutputTarget(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if ref.IsOCI != tt.wantIsOCI {
				t.Errorf("IsOCI = %v, want %v", ref.IsOCI, tt.wantIsOCI)
			}
			if ref.Registry != tt.wantReg {
				t.Errorf("Registry = %v, want %v", ref.Registry, tt.wantReg)
			}
			if ref.Repository != tt.wantRepo {
				t.Errorf("Repository = %v, want %v", ref.Repository, tt.wantRepo)
			}
			if ref.Tag != tt.wantTag {
				t.Errorf("Tag = %v, want %v", ref.Tag, tt.wantTag)
			}
			if ref.LocalPath != tt.wantDir {
				t.Errorf("LocalPath = %v, want %v", ref.LocalPath, tt.wantDir)
			}
		})
	}
}

func TestReferenceRendering(t *testing.T) {
	local := &Reference{LocalPath: "./out"}
	if local.String() != "./out" || local.ImageReference() != "" {
		t.Errorf("local reference rendered as %q / %q", local.String(), local.ImageReference())
	}
	if local.WithTag("x") != local {
		t.Error("WithTag on local reference should return the same reference")
	}

	ref := &Reference{IsOCI: true, Registry: "ghcr.io", Repository: "misoio/more_concepts"}
	if got := ref.String(); got != "oci://ghcr.io/misoio/more_concepts" {
		t.Errorf("String() = %q", got)
	}

	tagged := ref.WithTag("0.1.0")
	if ref.Tag != "" {
		t.Error("WithTag modified the original reference")
	}
	if got := tagged.String(); got != "oci://ghcr.io/misoio/more_concepts:0.1.0" {
		t.Errorf("String() = %q", got)
	}
	if got := tagged.ImageReference(); got != "ghcr.io/misoio/more_concepts:0.1.0" {
		t.Errorf("ImageReference() = %q", got)
	}
}

func TestValidateRegistryReference(t *testing.T) {
	tests := []struct {
		name       string
		registry   string
		repository string
		wantErr    bool
	}{
		{name: "valid ghcr.io", registry: "ghcr.io", repository: "misoio/more_concepts"},
		{name: "valid localhost with port", registry: "localhost:5000", repository: "test/repo"},
		{name: "valid with https prefix", registry: "https://ghcr.io", repository: "misoio/headers"},
		{name: "empty registry", registry: "", repository: "test/repo", wantErr: true},
		{name: "empty repository", registry: "ghcr.io", repository: "", wantErr: true},
		{name: "invalid registry with spaces", registry: "invalid registry", repository: "test/repo", wantErr: true},
		{name: "invalid repository with uppercase", registry: "ghcr.io", repository: "MiSo/Headers", wantErr: true},
		{name: "invalid repository with special chars", registry: "ghcr.io", repository: "test/repo@latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistryReference(tt.registry, tt.repository)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegistryReference() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultTag(t *testing.T) {
	meta := recipe.Metadata{Name: "more_concepts"}
	policy := identity.Policy{HeaderOnly: true}

	tests := []struct {
		version    string
		wantPrefix string
	}{
		{version: "0.1.0", wantPrefix: "0.1.0-"},
		{version: "1.0.0+build.5", wantPrefix: "1.0.0_build.5-"},
		{version: "unknown", wantPrefix: "unknown-"},
		{version: ".hidden", wantPrefix: "v.hidden-"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			id := identity.Compute(meta, tt.version, identity.Settings{}, policy)
			tag := DefaultTag(id)
			if !strings.HasPrefix(tag, tt.wantPrefix) {
				t.Errorf("DefaultTag() = %q, want prefix %q", tag, tt.wantPrefix)
			}
			if !strings.HasSuffix(tag, id.ShortID()) {
				t.Errorf("DefaultTag() = %q, want suffix %q", tag, id.ShortID())
			}
			if _, err := ParseOutputTarget("oci://ghcr.io/misoio/more_concepts:" + tag); err != nil {
				t.Errorf("tag %q is not a valid reference: %v", tag, err)
			}
		})
	}
}

func TestAnnotations(t *testing.T) {
	id := identity.Compute(recipe.Metadata{Name: "more_concepts"}, "0.1.0", identity.Settings{}, identity.Policy{HeaderOnly: true})

	a := Annotations(id, true, "abc123", "https://github.com/MiSo1289/more_concepts", "MIT", "")
	want := map[string]string{
		ociv1.AnnotationTitle:      "more_concepts",
		ociv1.AnnotationVersion:    "0.1.0",
		ociv1.AnnotationRevision:   "abc123",
		ociv1.AnnotationSource:     "https://github.com/MiSo1289/more_concepts",
		ociv1.AnnotationLicenses:   "MIT",
		AnnotationPackageID:        id.ID,
		AnnotationPackageReference: id.Reference(),
		AnnotationHeaderOnly:       "true",
	}
	if len(a) != len(want) {
		t.Fatalf("Annotations() = %v, want %v", a, want)
	}
	for k, v := range want {
		if a[k] != v {
			t.Errorf("annotation %s = %q, want %q", k, a[k], v)
		}
	}
}
