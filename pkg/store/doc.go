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

// Package store is a local filesystem cache of staged packages keyed by
// package identity.
//
// Packages are laid out as <root>/<name>/<version>/<id>, where id is the
// identity hash. Because header-only identities ignore the toolchain, one
// stored package serves every compiler and platform. The default root is
// $XDG_CACHE_HOME/hdrpkg/packages.
//
// Put is idempotent: storing identical content again is a no-op, detected
// by comparing content digests.
package store
