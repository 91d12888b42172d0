// Package recipe loads the recipe that describes a header-only package.
//
// A recipe is a small YAML document that starts with the shared document
// header (see package header):
//
//	kind: recipe
//	apiVersion: hdrpkg.dev/v1alpha1
//	metadata:
//	  name: more_concepts
//	  license: MIT
//	spec:
//	  headerOnly: true
//	  version:
//	    file: CMakeLists.txt
//	    variable: MORE_CONCEPTS_VERSION
//	  build:
//	    testTarget: test
//	  package:
//	    glob: "*.hpp"
//
// Metadata (name, homepage, license, description) is static for the life of
// the process. Spec carries the knobs the engine needs: where the version is
// assigned, how the external build tool is driven, and which files are
// staged. Empty spec fields are filled from the defaults package.
//
// When no recipe file exists in the source tree, LoadOrDefault returns the
// built-in more_concepts recipe.
package recipe
