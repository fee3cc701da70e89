package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's plaintext Password
	// is hashed before storage and cleared from the struct.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's email and/or password. If a plaintext
	// Password is set it is hashed and replaces the stored hash.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// SetVerified marks the user's email address as verified.
	// Returns ErrUserNotFound if the user does not exist.
	SetVerified(ctx context.Context, id uuid.UUID) error

	// Delete removes a user from the store by their ID. Owned tasks and all
	// share grants involving the user are removed by foreign key cascade;
	// categories the user created become system-detached.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
