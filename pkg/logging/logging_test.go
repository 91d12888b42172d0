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

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, FormatJSON, "hdrpkg", "v1.0.0", "info")

	logger.Debug("hidden")
	logger.Info("staged", "files", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %s", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["module"] != "hdrpkg" {
		t.Errorf("module = %v, want hdrpkg", rec["module"])
	}
	if rec["version"] != "v1.0.0" {
		t.Errorf("version = %v, want v1.0.0", rec["version"])
	}
	if rec["msg"] != "staged" {
		t.Errorf("msg = %v, want staged", rec["msg"])
	}
}

func TestNewLoggerTextDebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, FormatText, "hdrpkg", "dev", "debug")

	logger.Debug("resolving")

	out := buf.String()
	if !strings.Contains(out, "msg=resolving") {
		t.Errorf("expected text record, got %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("expected source location at debug level, got %q", out)
	}
}
