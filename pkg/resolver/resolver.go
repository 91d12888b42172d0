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

package resolver

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
	"github.com/MiSo1289/hdrpkg/pkg/version"
)

// UnknownVersion is how an unresolved version renders.
const UnknownVersion = "unknown"

// Version is the outcome of a resolution. The zero value is Unknown.
type Version struct {
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Known bool   `json:"known" yaml:"known"`
}

// Unknown is the version reported when the configuration cannot be read.
var Unknown = Version{}

// String returns the version value, or "unknown".
func (v Version) String() string {
	if !v.Known {
		return UnknownVersion
	}
	return v.Value
}

// Resolve reads the build configuration at path and extracts the value
// assigned to variable.
//
// A file that cannot be read yields Unknown and an error coded
// CONFIGURATION_UNREADABLE; callers that can live without a version check it
// with IsUnreadable. A readable file without exactly one assignment yields
// Unknown and an error coded CONFIGURATION_MALFORMED.
func Resolve(path, variable string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Unknown, apperrors.WrapWithContext(apperrors.ErrCodeConfigurationUnreadable,
			"cannot read build configuration", err, map[string]any{"path": path})
	}

	v, err := Parse(data, variable)
	if err != nil {
		if se, ok := err.(*apperrors.StructuredError); ok {
			if se.Context == nil {
				se.Context = map[string]any{}
			}
			se.Context["path"] = path
		}
		return Unknown, err
	}

	if _, perr := version.ParseVersion(v.Value); perr != nil {
		slog.Debug("resolved version is not a release number", "path", path, "version", v.Value, "reason", perr)
	}
	return v, nil
}

// ResolveBestEffort is Resolve with the unreadable case collapsed into
// Unknown. A malformed configuration is still returned as an error.
func ResolveBestEffort(path, variable string) (Version, error) {
	v, err := Resolve(path, variable)
	if IsUnreadable(err) {
		slog.Warn("build configuration unreadable, version unknown", "path", path, "error", err)
		return Unknown, nil
	}
	return v, err
}

// IsUnreadable reports whether err means the configuration could not be read.
func IsUnreadable(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeConfigurationUnreadable)
}

// IsMalformed reports whether err means the configuration was read but holds
// no usable version assignment.
func IsMalformed(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrCodeConfigurationMalformed)
}

// Parse extracts the version assigned to variable in a CMake document.
//
// Grammar, per line: the token "set(" VARIABLE " " opens the assignment, and
// the value runs up to the last ")" on that line. Surrounding whitespace is
// trimmed. The token may appear anywhere in the line. Exactly one line may
// carry the token.
func Parse(content []byte, variable string) (Version, error) {
	opener := "set(" + variable + " "

	var (
		found  string
		line   int
		lineNo int
	)

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	for sc.Scan() {
		lineNo++
		text := sc.Text()

		start := strings.Index(text, opener)
		if start < 0 {
			continue
		}

		if line != 0 {
			return Unknown, apperrors.NewWithContext(apperrors.ErrCodeConfigurationMalformed,
				fmt.Sprintf("%s is assigned more than once", variable),
				map[string]any{"variable": variable, "lines": []int{line, lineNo}})
		}

		rest := text[start+len(opener):]
		end := strings.LastIndexByte(rest, ')')
		if end < 0 {
			return Unknown, apperrors.NewWithContext(apperrors.ErrCodeConfigurationMalformed,
				fmt.Sprintf("assignment of %s is not closed on its line", variable),
				map[string]any{"variable": variable, "line": lineNo})
		}

		found = strings.TrimSpace(rest[:end])
		if found == "" {
			return Unknown, apperrors.NewWithContext(apperrors.ErrCodeConfigurationMalformed,
				fmt.Sprintf("assignment of %s is empty", variable),
				map[string]any{"variable": variable, "line": lineNo})
		}
		line = lineNo
	}
	if err := sc.Err(); err != nil {
		return Unknown, apperrors.Wrap(apperrors.ErrCodeConfigurationMalformed, "cannot scan build configuration", err)
	}

	if line == 0 {
		return Unknown, apperrors.NewWithContext(apperrors.ErrCodeConfigurationMalformed,
			fmt.Sprintf("no set(%s ...) assignment found", variable),
			map[string]any{"variable": variable})
	}

	return Version{Value: found, Known: true}, nil
}
