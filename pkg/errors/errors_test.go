package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeStorage, cause, "failed to save")

	if err.Code != ErrCodeStorage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStorage)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	sentinel := New(ErrCodeUnknownNode, "unknown node")
	layered := Wrap(ErrCodeStorage, New(ErrCodeInvalidInput, "inner"), "outer")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeUnknownEdge, false},
		{"outer of layered", layered, ErrCodeStorage, true},
		{"inner of layered", layered, ErrCodeInvalidInput, true},
		{"sentinel behind fmt", fmt.Errorf("remove node 3:1: %w", sentinel), ErrCodeUnknownNode, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"direct", New(ErrCodeUnknownEdge, "x"), ErrCodeUnknownEdge},
		{"behind fmt", fmt.Errorf("load: %w", New(ErrCodeNotFound, "x")), ErrCodeNotFound},
		{"outermost wins", Wrap(ErrCodeStorage, New(ErrCodeNotFound, "x"), "get"), ErrCodeStorage},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{New(ErrCodeUnknownNode, "x"), KindNotFound},
		{New(ErrCodeFileNotFound, "x"), KindNotFound},
		{New(ErrCodeInvariantViolation, "x"), KindConflict},
		{New(ErrCodeInvalidConfig, "x"), KindInput},
		{New(ErrCodeUnsupported, "x"), KindUnsupported},
		{Wrap(ErrCodeStorage, errors.New("dial"), "put"), KindUnavailable},
		{New(ErrCodeInternal, "x"), KindInternal},
		{fmt.Errorf("ctx: %w", New(ErrCodeInvalidName, "x")), KindInput},
		{errors.New("plain"), KindInternal},
		{nil, KindInternal},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if Code("SOMETHING_NEW").Kind() != KindInternal {
		t.Error("unknown codes should be internal")
	}
}

func TestErrorsIsMatchesSentinelByCode(t *testing.T) {
	sentinel := New(ErrCodeUnknownEdge, "unknown edge")

	if !errors.Is(New(ErrCodeUnknownEdge, "edge 0→1"), sentinel) {
		t.Error("same code should match the sentinel")
	}
	if !errors.Is(fmt.Errorf("remove: %w", New(ErrCodeUnknownEdge, "edge 0→1")), sentinel) {
		t.Error("match should survive fmt wrapping")
	}
	if errors.Is(New(ErrCodeUnknownNode, "node 4"), sentinel) {
		t.Error("different codes should not match")
	}

	// A target with a cause is a specific error, not a sentinel.
	specific := Wrap(ErrCodeUnknownEdge, errors.New("gone"), "edge")
	if errors.Is(New(ErrCodeUnknownEdge, "edge"), specific) {
		t.Error("targets with a cause should only match themselves")
	}
}
