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

// Package serializer renders hdrpkg command results.
//
// Three output formats are supported:
//   - json: indented, machine-readable
//   - yaml: the same document as json, for humans
//   - table: a FIELD/VALUE listing with nested keys flattened ("settings.os")
//
// Usage:
//
//	w, err := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	return w.Serialize(ctx, result)
//
// Table keys follow the json tag of each struct field so that all three
// formats name fields the same way.
package serializer
