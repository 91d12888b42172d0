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

// Package header provides the kind and apiVersion fields shared by hdrpkg
// documents.
//
// Recipes and package manifests embed Header inline, so both start with:
//
//	kind: recipe
//	apiVersion: hdrpkg.dev/v1alpha1
//
// Readers call Check with the kind they expect before using a document.
package header
