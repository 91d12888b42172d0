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

// Package resolver discovers a library's version from its CMake build
// configuration.
//
// The version is read from a single assignment line:
//
//	set(MORE_CONCEPTS_VERSION 0.1.0)
//
// Two failures are kept apart. An unreadable file (missing, permission
// denied) is tolerable: the version is best-effort metadata and resolves to
// Unknown. A readable file without exactly one assignment is malformed and
// callers that need a version should abort.
//
//	v, err := resolver.Resolve("CMakeLists.txt", "MORE_CONCEPTS_VERSION")
//	switch {
//	case resolver.IsUnreadable(err):
//	    // v == resolver.Unknown
//	case resolver.IsMalformed(err):
//	    return err
//	}
//
// The file is re-read on every call; nothing is cached.
package resolver
