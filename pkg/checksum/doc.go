/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package checksum writes and verifies SHA256 checksum files for staged
// packages.
//
// Usage:
//
//	err := checksum.GenerateChecksums(ctx, "/path/to/package", fileList)
//	if err != nil {
//	    return err
//	}
//
// Lines are sorted by path so re-staging the same headers reproduces the file
// byte for byte. The format is compatible with sha256sum:
//
//	sha256sum -c checksums.txt
package checksum
