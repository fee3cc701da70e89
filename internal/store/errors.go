package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors (e.g. ErrUserNotFound, ErrTaskNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g. a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references a row that does not exist. Check the
	// wrapped error for specific details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors.

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrCategoryNotFound indicates that the requested category does not exist.
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)

	// ErrShareNotFound indicates that no share grant exists for the given
	// task and user.
	ErrShareNotFound = fmt.Errorf("%w: share", ErrNotFound)

	// Entity-specific "duplicate" errors.

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrCategoryExists indicates that the user already has a category with
	// the given name, or it collides with a system default.
	ErrCategoryExists = fmt.Errorf("%w: category name", ErrDuplicate)

	// ErrShareExists indicates that the task is already shared with the user.
	ErrShareExists = fmt.Errorf("%w: share", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
