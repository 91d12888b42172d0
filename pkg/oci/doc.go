/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package oci publishes staged header packages to OCI-compliant registries.
//
// A staged package directory is packed as a single gzip layer in an OCI 1.1
// artifact manifest using ORAS (OCI Registry As Storage). Two operations
// make up the workflow:
//   - Package: writes the artifact into a local OCI image layout
//   - PushFromStore: copies a packaged artifact to a remote registry
//
// PackageAndPush runs both.
//
// # Tags and annotations
//
// DefaultTag derives the tag from the package identity as
// "<version>-<first 12 characters of the identity hash>", so every distinct
// identity lands on its own tag. Annotations records the identity, version,
// revision and license on the manifest.
//
// # Usage
//
//	ref, err := oci.ParseOutputTarget("oci://ghcr.io/misoio/more_concepts")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.PackageAndPush(ctx, oci.OutputConfig{
//	    SourceDir:   "/path/to/package",
//	    OutputDir:   tmp,
//	    Reference:   ref.WithTag(oci.DefaultTag(id)),
//	    Annotations: oci.Annotations(id, true, rev, "", "MIT", ""),
//	})
//
// # Authentication
//
// Credentials are read from the standard Docker configuration
// (~/.docker/config.json) through the ORAS credentials package.
package oci
