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

// Package version parses and orders library release numbers.
//
// Versions resolved from a build configuration are opaque tokens to the
// recipe engine; this package is used where ordering matters, such as
// listing stored packages newest first, and to flag tokens that do not look
// like release numbers.
//
//	v, err := version.ParseVersion("1.2.3-rc1")
//	// v.Major == 1, v.Minor == 2, v.Patch == 3, v.Extras == "-rc1"
package version
