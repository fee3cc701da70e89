package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	// Create saves a new category, assigning its ID from the database.
	// Returns ErrCategoryExists on a (name, creator) collision.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Category, error)

	// ListVisible retrieves the categories visible to the user: system
	// defaults plus the user's own, ordered by ID.
	ListVisible(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Category, error)

	// CountVisibleByIDs reports how many of the given category IDs are
	// visible to the user. Used to validate task category references.
	CountVisibleByIDs(ctx context.Context, userID uuid.UUID, ids []int64) (int, error)

	// Delete removes a category by its ID. Task links are removed by
	// foreign key cascade.
	// Returns ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new CategoryStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CategoryStore
}

// PriorityStore defines the interface for the read-only priority lookup.
type PriorityStore interface {
	// List retrieves all priorities ordered by ID.
	List(ctx context.Context) ([]*domain.Priority, error)

	// Exists reports whether a priority with the given ID exists.
	Exists(ctx context.Context, id int64) (bool, error)
}
