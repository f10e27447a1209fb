// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate usage scope).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated session doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked indicates the client is locked out after repeated failed
	// authentication attempts.
	ErrLocked = errors.New("locked")

	// ErrValueNotSet indicates the secret exists but no value was ever stored for it.
	ErrValueNotSet = errors.New("value not set")

	// ErrValueTooLarge indicates the submitted value exceeds the configured size ceiling.
	ErrValueTooLarge = errors.New("value too large")

	// ErrHandleClosed indicates the session handle was closed and can no longer be used.
	ErrHandleClosed = errors.New("handle closed")

	// ErrStorageUnavailable indicates a transient storage backend failure.
	// The operation may be retried by the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

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

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
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
