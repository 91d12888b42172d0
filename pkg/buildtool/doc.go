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

// Package buildtool defines the interface the build orchestrator drives.
//
// The orchestrator only ever needs three operations from an external build
// system: configure a build tree, build it, and run a test target. Keeping
// the interface this narrow lets the orchestrator be tested against a
// recording fake (see package buildtooltest) and keeps tool specifics, such
// as command lines and generator names, inside adapters like package cmake.
package buildtool
