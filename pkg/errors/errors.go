// Package errors provides structured error types for layerstack.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the build pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - Specification errors (UNKNOWN_LAYER, AMBIGUOUS_LAYER, MIXED_MODE,
//     MISSING_DENT_DEPTH, INVALID_INPUT, UNKNOWN_STACK): the instructions or
//     drawing sources are broken; rebuilding will not help.
//   - Geometry errors (EMPTY_BOUNDARY, GEOMETRY): a single stack could not be
//     constructed. These are reported per stack and never abort siblings.
//   - I/O and internal errors (FILE_NOT_FOUND, INVALID_FORMAT, INTERNAL_ERROR).
//
// None of these are transient. Only the network cache backends retry, and
// only their own connection errors (see package cache).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownLayer, "layer %q not found in any source", name)
//	if errors.Is(err, errors.ErrCodeUnknownLayer) {
//	    // Handle missing layer
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open drawing %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Specification errors
	ErrCodeUnknownLayer     Code = "UNKNOWN_LAYER"
	ErrCodeAmbiguousLayer   Code = "AMBIGUOUS_LAYER"
	ErrCodeMixedMode        Code = "MIXED_MODE"
	ErrCodeMissingDentDepth Code = "MISSING_DENT_DEPTH"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeUnknownStack     Code = "UNKNOWN_STACK"

	// Geometry errors
	ErrCodeEmptyBoundary Code = "EMPTY_BOUNDARY"
	ErrCodeGeometry      Code = "GEOMETRY"

	// I/O errors
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

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
// It unwraps the error chain looking for an *Error with a matching code.
// The outermost *Error wins, so a GEOMETRY wrapper around an EMPTY_BOUNDARY
// cause reports GEOMETRY only.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Has reports whether any *Error in the chain of err carries code.
func Has(err error, code Code) bool {
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

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
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

// IsSpecification reports whether err is caused by broken instructions or
// drawing sources rather than by geometry construction.
func IsSpecification(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownLayer, ErrCodeAmbiguousLayer, ErrCodeMixedMode,
		ErrCodeMissingDentDepth, ErrCodeInvalidInput, ErrCodeUnknownStack:
		return true
	}
	return false
}
