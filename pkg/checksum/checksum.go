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
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/MiSo1289/hdrpkg/pkg/errors"
)

// ChecksumFileName is the standard name for checksum files.
const ChecksumFileName = "checksums.txt"

// Entry is one line of a checksums file.
type Entry struct {
	Digest string // hex sha256
	Path   string // slash-separated, relative to the package root
}

// GenerateChecksums writes checksums.txt into packageDir covering the given
// files. Paths are recorded relative to packageDir with forward slashes and
// lines are sorted by path, so the same inputs always give the same bytes.
func GenerateChecksums(ctx context.Context, packageDir string, files []string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		digest, err := fileDigest(file)
		if err != nil {
			return apperrors.WrapWithContext(apperrors.ErrCodeInternal,
				"failed to read file for checksum", err, map[string]any{"file": file})
		}

		rel, err := filepath.Rel(packageDir, file)
		if err != nil || strings.HasPrefix(rel, "..") {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"file is outside the package directory", map[string]any{"file": file, "dir": packageDir})
		}
		entries = append(entries, Entry{Digest: digest, Path: filepath.ToSlash(rel)})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	var b bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s\n", e.Digest, e.Path)
	}

	checksumPath := GetChecksumFilePath(packageDir)
	if err := os.WriteFile(checksumPath, b.Bytes(), 0o644); err != nil { //nolint:gosec // package contents are public
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal,
			"failed to write checksums", err, map[string]any{"path": checksumPath})
	}

	slog.Debug("checksums generated", "file_count", len(entries), "path", checksumPath)
	return nil
}

// ReadChecksums parses the checksums file in packageDir.
func ReadChecksums(packageDir string) ([]Entry, error) {
	path := GetChecksumFilePath(packageDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "checksums file not found", err, map[string]any{"path": path})
		}
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to read checksums", err, map[string]any{"path": path})
	}

	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		digest, p, ok := strings.Cut(line, "  ")
		if !ok || len(digest) != sha256.Size*2 {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
				"malformed checksums line", map[string]any{"path": path, "line": lineNo})
		}
		entries = append(entries, Entry{Digest: digest, Path: p})
	}
	return entries, nil
}

// VerifyChecksums recomputes every digest listed in packageDir's checksums
// file and returns an error naming the first mismatch.
func VerifyChecksums(ctx context.Context, packageDir string) error {
	entries, err := ReadChecksums(packageDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeTimeout, "context cancelled", err)
		}
		got, err := fileDigest(filepath.Join(packageDir, filepath.FromSlash(e.Path)))
		if err != nil {
			return apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
				"listed file cannot be read", err, map[string]any{"file": e.Path})
		}
		if got != e.Digest {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "checksum mismatch",
				map[string]any{"file": e.Path, "want": e.Digest, "got": got})
		}
	}
	return nil
}

// GetChecksumFilePath returns the full path to the checksums.txt file
// in the given package directory.
func GetChecksumFilePath(packageDir string) string {
	return filepath.Join(packageDir, ChecksumFileName)
}

func fileDigest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
