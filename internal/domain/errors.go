package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrNotOwner is returned when a user attempts an owner-only operation
	// on a resource they do not own.
	ErrNotOwner = errors.New("operation requires resource ownership")
)

// ValidationError wraps a field-level validation failure with the field name
// and a human-readable reason. It unwraps to a domain sentinel error so
// callers can classify it with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: err}
}
