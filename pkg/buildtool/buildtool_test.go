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

package buildtool

import (
	"fmt"
	"strings"
	"testing"
)

func TestTailBuffer(t *testing.T) {
	tests := []struct {
		name   string
		max    int
		writes []string
		want   string
	}{
		{name: "under limit", max: 10, writes: []string{"abc", "def"}, want: "abcdef"},
		{name: "exact limit", max: 6, writes: []string{"abc", "def"}, want: "abcdef"},
		{name: "overflow across writes", max: 4, writes: []string{"abc", "def"}, want: "cdef"},
		{name: "single large write", max: 3, writes: []string{"abcdefgh"}, want: "fgh"},
		{name: "disabled", max: 0, writes: []string{"abc"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := NewTailBuffer(tt.max)
			for _, w := range tt.writes {
				n, err := tb.Write([]byte(w))
				if err != nil {
					t.Fatalf("Write() error = %v", err)
				}
				if n != len(w) {
					t.Errorf("Write() n = %d, want %d", n, len(w))
				}
			}
			if got := tb.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTailBufferManyWrites(t *testing.T) {
	tb := NewTailBuffer(16)
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(tb, "line %d\n", i)
	}
	got := tb.String()
	if len(got) != 16 {
		t.Fatalf("len = %d, want 16", len(got))
	}
	if !strings.HasSuffix(got, "line 999\n") {
		t.Errorf("tail = %q, want suffix %q", got, "line 999\n")
	}
}
