// Package errors provides structured error types for routeboard.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the graph engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - UNKNOWN_*: A stale or foreign key was handed to the graph engine
//   - INVALID_*: Input validation failures
//   - *NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// Every code belongs to a [Kind], which front ends map to their own status
// vocabulary (HTTP statuses, process exit codes).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid radius: %v", r)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "failed to decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph engine errors
	ErrCodeUnknownNode        Code = "UNKNOWN_NODE"
	ErrCodeUnknownEdge        Code = "UNKNOWN_EDGE"
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeTooLarge      Code = "PAYLOAD_TOO_LARGE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by how a caller should react to them.
type Kind int

const (
	KindInternal    Kind = iota // a bug or an unexpected failure
	KindInput                   // the request was malformed or out of range
	KindNotFound                // a key, document or file does not exist
	KindConflict                // the request would break a graph invariant
	KindUnsupported             // a format or feature is not available
	KindUnavailable             // a backend (store, cache, converter) failed
)

var kinds = map[Code]Kind{
	ErrCodeUnknownNode:        KindNotFound,
	ErrCodeUnknownEdge:        KindNotFound,
	ErrCodeNotFound:           KindNotFound,
	ErrCodeFileNotFound:       KindNotFound,
	ErrCodeInvariantViolation: KindConflict,
	ErrCodeInvalidInput:       KindInput,
	ErrCodeInvalidFormat:      KindInput,
	ErrCodeInvalidPath:        KindInput,
	ErrCodeInvalidName:        KindInput,
	ErrCodeInvalidConfig:      KindInput,
	ErrCodeTooLarge:           KindInput,
	ErrCodeUnsupported:        KindUnsupported,
	ErrCodeStorage:            KindUnavailable,
}

// Kind returns the kind of c. Unknown codes are internal.
func (c Code) Kind() Kind {
	if k, ok := kinds[c]; ok {
		return k
	}
	return KindInternal
}

// KindOf returns the kind of the outermost coded error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is match any *Error with the same code and no cause, so
// a sentinel such as planar.ErrUnknownNode also matches errors built
// elsewhere with New(ErrCodeUnknownNode, ...).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Cause == nil && t.Code == e.Code
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so an outer error with a different code does not hide an inner match.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the chain holds no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
