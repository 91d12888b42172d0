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

// Package packaging stages public headers into a package layout.
//
// StageHeaders is the core operation: it copies the header set, meaning every
// file under the source root matching a glob, into the output root while
// preserving relative paths:
//
//	n, err := packaging.StageHeaders(ctx, "./src", "./out", "*.hpp")
//
// A glob without a "/" applies at any depth, so "*.hpp" also selects
// include/more_concepts/detail/x.hpp. Globs with a "/" are matched against
// the whole relative path and support "**".
//
// Staging is additive and idempotent. Nothing already in the output root is
// deleted, and destinations with identical content are not rewritten, so
// running twice on an unchanged source gives byte-identical output. A
// missing source root is an error coded SOURCE_TREE_MISSING; an empty header
// set is not an error.
//
// Stage extends this with a package.yaml manifest and a checksums.txt file.
package packaging
