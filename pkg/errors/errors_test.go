package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSourceTreeMissing, "source root does not exist")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeSourceTreeMissing {
		t.Errorf("expected code %s, got %s", ErrCodeSourceTreeMissing, err.Code)
	}
	if err.Message != "source root does not exist" {
		t.Errorf("expected message 'source root does not exist', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 2")
	err := Wrap(ErrCodeExternalToolFailure, "configure failed", cause)

	if err.Code != ErrCodeExternalToolFailure {
		t.Errorf("expected code %s, got %s", ErrCodeExternalToolFailure, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("exit status 1")
	ctx := map[string]any{
		"step":   "test",
		"target": "more_concepts_tests",
	}

	err := WrapWithContext(ErrCodeExternalToolFailure, "test step failed", cause, ctx)

	if err.Code != ErrCodeExternalToolFailure {
		t.Errorf("expected code %s, got %s", ErrCodeExternalToolFailure, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["step"] != "test" {
		t.Errorf("expected step to be test")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeConfigurationMalformed, "no version assignment"),
			expected: "[CONFIGURATION_MALFORMED] no version assignment",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeConfigurationUnreadable, "cannot read CMakeLists.txt", errors.New("no such file")),
			expected: "[CONFIGURATION_UNREADABLE] cannot read CMakeLists.txt: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("plain"), ""},
		{"structured", New(ErrCodeNotFound, "missing"), ErrCodeNotFound},
		{"fmt wrapped", fmt.Errorf("outer: %w", New(ErrCodeTimeout, "slow")), ErrCodeTimeout},
		{
			name: "outermost wins",
			err:  Wrap(ErrCodeExternalToolFailure, "build", New(ErrCodeTimeout, "slow")),
			want: ErrCodeExternalToolFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	inner := New(ErrCodeConfigurationUnreadable, "missing")
	outer := Wrap(ErrCodeInternal, "resolve", fmt.Errorf("context: %w", inner))

	if !HasCode(outer, ErrCodeInternal) {
		t.Error("expected outer code to match")
	}
	if !HasCode(outer, ErrCodeConfigurationUnreadable) {
		t.Error("expected nested code to match")
	}
	if HasCode(outer, ErrCodeConfigurationMalformed) {
		t.Error("unexpected match for absent code")
	}
	if HasCode(nil, ErrCodeInternal) {
		t.Error("nil error must not match")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeConfigurationUnreadable,
		ErrCodeConfigurationMalformed,
		ErrCodeExternalToolFailure,
		ErrCodeSourceTreeMissing,
		ErrCodeNotFound,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
		if seen[code] {
			t.Errorf("duplicate error code: %v", code)
		}
		seen[code] = true
	}
}
