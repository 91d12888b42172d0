// Package logging provides structured logging utilities for hdrpkg components.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every command logs the same way. It supports environment-based level
// configuration, module/version context injection, and source location
// tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Recoverable conditions such as an unknown version
//   - ERROR: Failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hdrpkg", version)
//	    slog.Info("build started", "source", dir)
//	}
//
// The LOG_LEVEL environment variable controls verbosity when no explicit
// level is passed:
//
//	LOG_LEVEL=debug hdrpkg build --source .
//
// # Output Format
//
// JSON to stderr by default:
//
//	{"time":"...","level":"INFO","msg":"step finished","module":"hdrpkg","version":"v0.1.0","step":"build"}
//
// FormatText selects slog's key=value handler for interactive use.
package logging
