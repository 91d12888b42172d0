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

package checksum

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestGenerateChecksums(t *testing.T) {
	t.Parallel()

	t.Run("sorted relative slash paths", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		b := filepath.Join(dir, "include", "b.hpp")
		a := filepath.Join(dir, "include", "nested", "a.hpp")
		writeFile(t, b, "b")
		writeFile(t, a, "a")

		if err := GenerateChecksums(context.Background(), dir, []string{b, a}); err != nil {
			t.Fatalf("GenerateChecksums() error = %v", err)
		}

		data, err := os.ReadFile(GetChecksumFilePath(dir))
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !strings.HasSuffix(lines[0], "  include/b.hpp") {
			t.Errorf("line 0 = %q", lines[0])
		}
		if !strings.HasSuffix(lines[1], "  include/nested/a.hpp") {
			t.Errorf("line 1 = %q", lines[1])
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		f := filepath.Join(dir, "x.hpp")
		writeFile(t, f, "x")

		if err := GenerateChecksums(context.Background(), dir, []string{f}); err != nil {
			t.Fatal(err)
		}
		first, _ := os.ReadFile(GetChecksumFilePath(dir))
		if err := GenerateChecksums(context.Background(), dir, []string{f}); err != nil {
			t.Fatal(err)
		}
		second, _ := os.ReadFile(GetChecksumFilePath(dir))
		if string(first) != string(second) {
			t.Errorf("checksums differ between runs")
		}
	})

	t.Run("returns error on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := GenerateChecksums(ctx, t.TempDir(), nil); err == nil {
			t.Error("expected error for cancelled context")
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := GenerateChecksums(context.Background(), dir, []string{filepath.Join(dir, "missing.hpp")})
		if err == nil {
			t.Error("expected error for non-existent file")
		}
	})

	t.Run("rejects files outside the package", func(t *testing.T) {
		t.Parallel()

		outside := filepath.Join(t.TempDir(), "o.hpp")
		writeFile(t, outside, "o")

		err := GenerateChecksums(context.Background(), t.TempDir(), []string{outside})
		if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidRequest {
			t.Errorf("code = %v, want %v", apperrors.CodeOf(err), apperrors.ErrCodeInvalidRequest)
		}
	})
}

func TestVerifyChecksums(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := filepath.Join(dir, "include", "c.hpp")
	writeFile(t, f, "original")

	if err := GenerateChecksums(context.Background(), dir, []string{f}); err != nil {
		t.Fatal(err)
	}
	if err := VerifyChecksums(context.Background(), dir); err != nil {
		t.Fatalf("VerifyChecksums() error = %v", err)
	}

	entries, err := ReadChecksums(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Path != "include/c.hpp" {
		t.Fatalf("entries = %+v", entries)
	}

	writeFile(t, f, "tampered")
	if err := VerifyChecksums(context.Background(), dir); err == nil {
		t.Error("expected mismatch after modifying file")
	}
}

func TestReadChecksumsMissing(t *testing.T) {
	t.Parallel()

	_, err := ReadChecksums(t.TempDir())
	if apperrors.CodeOf(err) != apperrors.ErrCodeNotFound {
		t.Errorf("code = %v, want %v", apperrors.CodeOf(err), apperrors.ErrCodeNotFound)
	}
}
