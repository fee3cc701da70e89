// Package service provides application-level services for managing users,
// tasks, shares and categories.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. Returned when a collaborator attempts an
	// owner-only operation. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrSelfShare indicates an attempt to share a task with its own owner.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrSelfShare = errors.New("cannot share a task with its owner")

	// ErrInvalidReference indicates a task referenced a priority or category
	// that does not exist or is not visible to the user.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrInvalidReference = errors.New("referenced priority or category does not exist")
)
