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

package header

import (
	"fmt"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

// APIVersion is the current schema version of every hdrpkg document.
const APIVersion = "hdrpkg.dev/v1alpha1"

// Kind names the type of a document.
type Kind string

const (
	// KindRecipe is a recipe.yaml document.
	KindRecipe Kind = "recipe"
	// KindPackage is a package.yaml manifest written by the packaging stage.
	KindPackage Kind = "package"
)

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindRecipe, KindPackage:
		return true
	default:
		return false
	}
}

// Header identifies the kind and schema of a document. It is embedded inline
// in each document type.
type Header struct {
	Kind       Kind   `json:"kind" yaml:"kind"`
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`
}

// New returns a header of the given kind at the current APIVersion.
func New(kind Kind) Header {
	return Header{Kind: kind, APIVersion: APIVersion}
}

// ApplyDefaults fills an empty kind or apiVersion.
func (h *Header) ApplyDefaults(kind Kind) {
	if h.Kind == "" {
		h.Kind = kind
	}
	if h.APIVersion == "" {
		h.APIVersion = APIVersion
	}
}

// Check returns an INVALID_REQUEST error unless the header is of the wanted
// kind and the current APIVersion.
func (h Header) Check(want Kind) error {
	if h.Kind != want {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported %s kind %q", want, h.Kind),
			map[string]any{"kind": string(h.Kind), "want": string(want)})
	}
	if h.APIVersion != APIVersion {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported %s apiVersion %q", want, h.APIVersion),
			map[string]any{"apiVersion": h.APIVersion, "want": APIVersion})
	}
	return nil
}
