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

package version

import (
	"errors"
	"slices"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{"major only", "1", Version{Major: 1, Precision: 1}, nil},
		{"major minor", "1.2", Version{Major: 1, Minor: 2, Precision: 2}, nil},
		{"full", "1.2.3", NewVersion(1, 2, 3), nil},
		{"v prefix", "v0.1.0", NewVersion(0, 1, 0), nil},
		{"pre-release", "1.2.3-rc1", Version{Major: 1, Minor: 2, Patch: 3, Precision: 3, Extras: "-rc1"}, nil},
		{"build metadata", "2.0+git.abc", Version{Major: 2, Precision: 2, Extras: "+git.abc"}, nil},
		{"empty", "", Version{}, ErrEmptyVersion},
		{"too many", "1.2.3.4", Version{}, ErrTooManyComponents},
		{"letters", "a.b", Version{}, ErrNonNumeric},
		{"empty component", "1..2", Version{}, ErrNonNumeric},
		{"negative", "-1", Version{}, ErrNonNumeric},
		{"cmake variable", "${PROJECT_VERSION}", Version{}, ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseVersion(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1"},
		{"1.2", "1.2"},
		{"v1.2.3", "1.2.3"},
		{"1.2.3-rc1", "1.2.3-rc1"},
	}
	for _, tt := range tests {
		if got := MustParseVersion(tt.in).String(); got != tt.want {
			t.Errorf("String() of %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2", "1.2.0", 0},
		{"1.2.4", "1.2.3", 1},
		{"1.10.0", "1.9.9", 1},
		{"0.9", "1", -1},
		{"1.0.0-rc1", "1.0.0", -1},
		{"1.0.0", "1.0.0-rc1", 1},
		{"1.0.0-rc2", "1.0.0-rc1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := MustParseVersion(tt.a).Compare(MustParseVersion(tt.b)); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSortDescending(t *testing.T) {
	versions := []string{"0.1.0", "unknown", "1.0.0-rc1", "1.0.0", "0.10.2"}
	SortDescending(versions)

	want := []string{"1.0.0", "1.0.0-rc1", "0.10.2", "0.1.0", "unknown"}
	if !slices.Equal(versions, want) {
		t.Errorf("SortDescending() = %v, want %v", versions, want)
	}
}

func TestMustParseVersionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid version")
		}
	}()
	MustParseVersion("not-a-version")
}
