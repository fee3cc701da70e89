package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
)

// TaskStore defines the interface for task and share-relation persistence.
type TaskStore interface {
	// Create saves a new task, including its category links, atomically.
	// Returns ErrInvalidEntity if the priority or a category does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, with category IDs populated.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListForUser retrieves tasks the user owns plus tasks shared with the
	// user, newest first. Returns an empty slice when nothing matches.
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Task, error)

	// Update rewrites a task's mutable fields and replaces its category links.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns ErrInvalidEntity if the priority or a category does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID. Share relations and category links are
	// removed by foreign key cascade.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateShare grants a user access to a task.
	// Returns ErrShareExists if the grant already exists.
	// Returns ErrInvalidEntity if the task or user does not exist.
	CreateShare(ctx context.Context, share *domain.Share) error

	// DeleteShare revokes a user's access to a task.
	// Returns ErrShareNotFound if no such grant exists.
	DeleteShare(ctx context.Context, taskID, userID uuid.UUID) error

	// ListShares retrieves all share grants for a task, oldest first.
	ListShares(ctx context.Context, taskID uuid.UUID) ([]*domain.Share, error)

	// HasShare reports whether the task is shared with the given user.
	HasShare(ctx context.Context, taskID, userID uuid.UUID) (bool, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
