// Package errors provides structured error types for better observability
// and programmatic error handling across the recipe engine.
//
// Each error carries an ErrorCode that callers branch on instead of matching
// message text. The codes mirror the engine's failure taxonomy: an unreadable
// build configuration (tolerated during version resolution), a malformed one,
// a failed external tool step, and a missing source tree.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeExternalToolFailure,
//	    "build step failed",
//	    cause,
//	    map[string]any{
//	        "step": "build",
//	        "stderr": tail,
//	    },
//	)
//
//	if errors.HasCode(err, errors.ErrCodeConfigurationUnreadable) {
//	    // fall back to an unknown version
//	}
package errors
