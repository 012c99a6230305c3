// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated subject doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrQuotaExceeded indicates a rate window or token budget has been exhausted.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrContentBlocked indicates the prompt firewall rejected the request content.
	ErrContentBlocked = errors.New("content blocked")

	// ErrUnsupportedModel indicates the requested model has no registered backend.
	ErrUnsupportedModel = errors.New("unsupported model")

	// ErrBackendTimeout indicates the backend adapter exceeded the inference deadline.
	ErrBackendTimeout = errors.New("backend timeout")

	// ErrBackendFailure indicates an opaque backend adapter failure.
	// Backend internals are never surfaced to callers through this error.
	ErrBackendFailure = errors.New("backend failure")
)

// ContentBlockedError carries the firewall violation list alongside ErrContentBlocked.
// Violations name detection categories only, never pattern internals.
type ContentBlockedError struct {
	Violations []string
}

// Error implements the error interface.
func (e *ContentBlockedError) Error() string {
	return fmt.Sprintf("content blocked: %s", strings.Join(e.Violations, "; "))
}

// Unwrap makes the error match ErrContentBlocked via errors.Is.
func (e *ContentBlockedError) Unwrap() error {
	return ErrContentBlocked
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
