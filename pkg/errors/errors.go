// Package errors provides structured error types for the DraftForge export
// engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, HTTP API, and library use
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Option/input validation failures (fatal, pre-encoding)
//   - UNSUPPORTED_*: Registry lookups that found no encoder
//   - CONVERSION_*/ENCODING_*: Failures inside the export stages
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedFormat, "no encoder for %q", format)
//	if errors.Is(err, errors.ErrCodeUnsupportedFormat) {
//	    // Handle unknown format
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEncodingFailed, origErr, "encode %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidOptions   Code = "INVALID_OPTIONS"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidUnits     Code = "INVALID_UNITS"
	ErrCodeInvalidPrecision Code = "INVALID_PRECISION"
	ErrCodeInvalidModel     Code = "INVALID_MODEL"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Registry errors
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Export stage errors
	ErrCodeConversionFailed Code = "CONVERSION_FAILED"
	ErrCodeEncodingFailed   Code = "ENCODING_FAILED"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

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
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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
