// Package errors provides structured error types for spread.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the resolver, fetcher and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the stage that produces them:
//   - Resolution: SPREAD_NOT_FOUND, VERSION_NOT_FOUND, HOMEPAGE_REQUIRED, ...
//   - Fetch: FETCH_FAILED
//   - Materialization: MISSING_PAYLOAD, WRITE_FAILED, INVALID_PATH
//   - Handoff: INSTALL_FAILED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSpreadNotFound, "spread %q not found in the centralized registry", name)
//	if errors.Is(err, errors.ErrCodeSpreadNotFound) {
//	    // Handle missing spread
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetchFailed, origErr, "failed to fetch spread from %s", url)
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
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Resolution errors
	ErrCodeSpreadNotFound        Code = "SPREAD_NOT_FOUND"
	ErrCodeVersionNotFound       Code = "VERSION_NOT_FOUND"
	ErrCodeNoVersionsAvailable   Code = "NO_VERSIONS_AVAILABLE"
	ErrCodeHomepageRequired      Code = "HOMEPAGE_REQUIRED"
	ErrCodeRegistryUnavailable   Code = "REGISTRY_UNAVAILABLE"
	ErrCodeRegistryNotFoundAtURL Code = "REGISTRY_NOT_FOUND_AT_URL"
	ErrCodeComponentNotFound     Code = "COMPONENT_NOT_FOUND"
	ErrCodeFileNotFound          Code = "FILE_NOT_FOUND"
	ErrCodeNotFound              Code = "NOT_FOUND"

	// Fetch errors
	ErrCodeFetchFailed Code = "FETCH_FAILED"
	ErrCodeNetwork     Code = "NETWORK_ERROR"

	// Materialization errors
	ErrCodeMissingPayload Code = "MISSING_PAYLOAD"
	ErrCodeWriteFailed    Code = "WRITE_FAILED"

	// Package manager handoff
	ErrCodeInstallFailed Code = "INSTALL_FAILED"

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

// Is reports whether any *Error in err's chain carries the given code.
// Wrapping a resolution error in a FETCH_FAILED keeps both codes visible.
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
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (and its cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
