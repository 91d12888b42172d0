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

package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	goruntime "runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/MiSo1289/hdrpkg/pkg/recipe"
)

// Namespace scopes identity UUIDs so they never collide with UUIDv5 values
// derived from the same text elsewhere.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/MiSo1289/hdrpkg/identity"))

// Settings are the build axes a binary package would vary on.
type Settings struct {
	OS              string `json:"os,omitempty" yaml:"os,omitempty"`
	Arch            string `json:"arch,omitempty" yaml:"arch,omitempty"`
	Compiler        string `json:"compiler,omitempty" yaml:"compiler,omitempty"`
	CompilerVersion string `json:"compilerVersion,omitempty" yaml:"compilerVersion,omitempty"`
	BuildType       string `json:"buildType,omitempty" yaml:"buildType,omitempty"`
}

// SettingsFromHost fills the OS and architecture from the running process.
// Compiler and build type are left for the caller.
func SettingsFromHost() Settings {
	return Settings{
		OS:   goruntime.GOOS,
		Arch: goruntime.GOARCH,
	}
}

// pairs returns the axes in canonical (sorted by key) order.
func (s Settings) pairs() [][2]string {
	return [][2]string{
		{"arch", s.Arch},
		{"build_type", s.BuildType},
		{"compiler", s.Compiler},
		{"compiler.version", s.CompilerVersion},
		{"os", s.OS},
	}
}

// Policy decides which settings take part in the identity.
type Policy struct {
	// HeaderOnly collapses every settings axis, so one package serves all
	// toolchains and build types.
	HeaderOnly bool `json:"headerOnly" yaml:"headerOnly"`
}

// PolicyFor returns the policy a recipe declares.
func PolicyFor(r *recipe.Recipe) Policy {
	return Policy{HeaderOnly: r.Spec.HeaderOnly}
}

// Identity is the key a built package is stored and looked up under.
type Identity struct {
	Name     string   `json:"name" yaml:"name"`
	Version  string   `json:"version" yaml:"version"`
	Settings Settings `json:"settings" yaml:"settings"`

	// ID is the sha256 of the canonical rendering, hex encoded.
	ID string `json:"id" yaml:"id"`
}

// Compute derives the identity of a package. It is pure: equal inputs give
// equal identities, and under a header-only policy the settings do not
// affect the result at all.
func Compute(meta recipe.Metadata, version string, settings Settings, policy Policy) Identity {
	if policy.HeaderOnly {
		settings = Settings{}
	}

	id := Identity{
		Name:     meta.Name,
		Version:  version,
		Settings: settings,
	}
	sum := sha256.Sum256([]byte(id.Canonical()))
	id.ID = hex.EncodeToString(sum[:])
	return id
}

// Canonical renders the identity inputs as stable text. Empty axes are
// omitted.
func (i Identity) Canonical() string {
	var b strings.Builder
	b.WriteString("[recipe]\n")
	fmt.Fprintf(&b, "name=%s\n", i.Name)
	fmt.Fprintf(&b, "version=%s\n", i.Version)
	b.WriteString("[settings]\n")
	for _, kv := range i.Settings.pairs() {
		if kv[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", kv[0], kv[1])
	}
	return b.String()
}

// Reference renders the identity as name/version:id.
func (i Identity) Reference() string {
	return fmt.Sprintf("%s/%s:%s", i.Name, i.Version, i.ID)
}

// ShortID returns the first 12 characters of the ID.
func (i Identity) ShortID() string {
	if len(i.ID) < 12 {
		return i.ID
	}
	return i.ID[:12]
}

// UUID returns a name-based UUID over the canonical rendering.
func (i Identity) UUID() uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(i.Canonical()))
}

// String implements fmt.Stringer.
func (i Identity) String() string {
	return i.Reference()
}
