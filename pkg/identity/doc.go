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

// Package identity computes the key a built package is stored under.
//
// An identity is derived from the recipe name, the resolved version and the
// build settings. Header-only recipes collapse every settings axis, so one
// package serves any compiler, OS, architecture or build type:
//
//	meta := recipe.Default().Metadata
//	id := identity.Compute(meta, "1.0.0", identity.SettingsFromHost(), identity.Policy{HeaderOnly: true})
//	fmt.Println(id.Reference()) // more_concepts/1.0.0:<sha256>
//
// The ID is the sha256 of [Identity.Canonical]. Equal inputs always produce
// equal identities.
package identity
