// Package cli implements the hdrpkg command-line interface.
//
// # Overview
//
// hdrpkg turns the source tree of a header-only C++ library into a package
// keyed by a stable identity. It resolves the library version from the
// build configuration, drives cmake through configure, build and test, and
// stages the public headers together with a package manifest.
//
// # Commands
//
// identity - Print the package identity:
//
//	hdrpkg identity --source . [--compiler gcc --compiler-version 13]
//
// build - Configure, build and test with cmake:
//
//	CONAN_RUN_TESTS=0 hdrpkg build --source . --build-type Release
//
// The test toggle is read from the environment variable the recipe names.
// Invalid values fail before cmake runs.
//
// package - Stage headers, package.yaml and checksums.txt:
//
//	hdrpkg package --source . --dest ./out
//
// create - build, package and store under $XDG_CACHE_HOME/hdrpkg/packages:
//
//	hdrpkg create --source .
//
// push - Publish a staged or stored package to an OCI registry:
//
//	hdrpkg push --package ./out --target oci://ghcr.io/acme/more_concepts
//
// inspect - Verify a staged package, or list stored ones:
//
//	hdrpkg inspect ./out
//	hdrpkg inspect --name more_concepts
//
// # Global Flags
//
//	--log-level     debug, info, warn, error (env LOG_LEVEL)
//	--log-format    text or json
//	--metrics-file  write Prometheus metrics after the command
//
// Commands that print a result accept --output/-o (default: stdout) and
// --format/-t (yaml, json, table; default yaml).
//
// # Exit Codes
//
// hdrpkg exits 0 on success and 1 on any error. Errors are printed as
// "[CODE] message: cause".
package cli
