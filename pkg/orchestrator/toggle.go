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

package orchestrator

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

// TestToggle is the externally supplied switch for the test step.
type TestToggle int

const (
	// TestsUnspecified means no preference was given. Tests run.
	TestsUnspecified TestToggle = iota
	// TestsEnabled requests the test step.
	TestsEnabled
	// TestsDisabled skips the test step.
	TestsDisabled
)

// String implements fmt.Stringer.
func (t TestToggle) String() string {
	switch t {
	case TestsEnabled:
		return "enabled"
	case TestsDisabled:
		return "disabled"
	default:
		return "unspecified"
	}
}

// ShouldRun reports whether the test step runs under this toggle.
func (t TestToggle) ShouldRun() bool {
	return t != TestsDisabled
}

// ParseTestToggle interprets an environment value. Empty means unspecified;
// 1/true/yes/on and 0/false/no/off are accepted in any case. Anything else
// is rejected rather than guessed at.
func ParseTestToggle(value string) (TestToggle, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return TestsUnspecified, nil
	case "1", "true", "yes", "on":
		return TestsEnabled, nil
	case "0", "false", "no", "off":
		return TestsDisabled, nil
	default:
		return TestsUnspecified, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid test toggle value %q", value),
			map[string]any{"value": value})
	}
}

// TestToggleFromEnv reads and parses the named environment variable.
func TestToggleFromEnv(name string) (TestToggle, error) {
	t, err := ParseTestToggle(os.Getenv(name))
	if err != nil {
		if se, ok := err.(*apperrors.StructuredError); ok {
			se.Context["env"] = name
		}
		return TestsUnspecified, err
	}
	return t, nil
}
