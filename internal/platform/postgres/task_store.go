package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/platform/logger"
	"github.com/pluresque/taskify-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// The task row and its category links are inserted together; the caller
// wraps the store in a transaction when atomicity matters.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, completed, priority_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Completed,
		task.PriorityID,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("task references a missing priority or owner",
				slog.String("task_id", task.ID.String()))
			return store.ErrInvalidEntity
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := s.replaceCategoryLinks(ctx, task.ID, task.CategoryIDs); err != nil {
		log.Error("failed to link task categories",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, description, completed, priority_id, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.PriorityID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	categoryIDs, err := s.categoryIDsFor(ctx, id)
	if err != nil {
		log.Error("failed to load task categories",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}
	task.CategoryIDs = categoryIDs

	return &task, nil
}

// ListForUser implements store.TaskStore.ListForUser
// The result covers tasks the user owns plus tasks shared with the user,
// newest first.
func (s *PostgresTaskStore) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit = store.ClampLimit(limit)
	offset = store.ClampOffset(offset)

	query := `
		SELECT t.id, t.owner_id, t.title, t.description, t.completed, t.priority_id, t.created_at, t.updated_at
		FROM tasks t
		WHERE t.owner_id = $1
		   OR EXISTS (
			SELECT 1 FROM task_shares ts
			WHERE ts.task_id = t.id AND ts.user_id = $1
		   )
		ORDER BY t.created_at DESC, t.id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.PriorityID,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		log.Error("task row iteration failed",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	for _, task := range tasks {
		categoryIDs, err := s.categoryIDsFor(ctx, task.ID)
		if err != nil {
			log.Error("failed to load task categories",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return nil, err
		}
		task.CategoryIDs = categoryIDs
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// Category links are replaced wholesale with the task's current set.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, priority_id = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
		task.PriorityID,
		task.UpdatedAt,
		task.ID,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("task update references a missing priority",
				slog.String("task_id", task.ID.String()))
			return store.ErrInvalidEntity
		}

		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for update",
			slog.String("task_id", task.ID.String()))
		return err
	}

	if err := s.replaceCategoryLinks(ctx, task.ID, task.CategoryIDs); err != nil {
		log.Error("failed to replace task categories",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
// Share relations and category links go with the task via FK cascade.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for delete",
			slog.String("task_id", id.String()))
		return err
	}

	log.Info("task deleted successfully",
		slog.String("task_id", id.String()))
	return nil
}

// CreateShare implements store.TaskStore.CreateShare
func (s *PostgresTaskStore) CreateShare(ctx context.Context, share *domain.Share) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := share.Validate(); err != nil {
		log.Warn("share validation failed",
			slog.String("error", err.Error()),
			slog.String("task_id", share.TaskID.String()))
		return err
	}

	query := `
		INSERT INTO task_shares (task_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, share.TaskID, share.UserID, share.CreatedAt)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("share already exists",
				slog.String("task_id", share.TaskID.String()),
				slog.String("user_id", share.UserID.String()))
			return store.ErrShareExists
		}
		if IsForeignKeyViolation(err) {
			log.Debug("share references a missing task or user",
				slog.String("task_id", share.TaskID.String()))
			return store.ErrInvalidEntity
		}

		log.Error("failed to create share",
			slog.String("error", err.Error()),
			slog.String("task_id", share.TaskID.String()))
		return MapError(err)
	}

	log.Info("task shared successfully",
		slog.String("task_id", share.TaskID.String()),
		slog.String("user_id", share.UserID.String()))
	return nil
}

// DeleteShare implements store.TaskStore.DeleteShare
func (s *PostgresTaskStore) DeleteShare(ctx context.Context, taskID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM task_shares WHERE task_id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		log.Error("failed to delete share",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrShareNotFound); err != nil {
		log.Debug("share not found for delete",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("share revoked successfully",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// ListShares implements store.TaskStore.ListShares
func (s *PostgresTaskStore) ListShares(ctx context.Context, taskID uuid.UUID) ([]*domain.Share, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT task_id, user_id, created_at
		FROM task_shares
		WHERE task_id = $1
		ORDER BY created_at, user_id
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to list shares",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	shares := []*domain.Share{}
	for rows.Next() {
		var share domain.Share
		if err := rows.Scan(&share.TaskID, &share.UserID, &share.CreatedAt); err != nil {
			log.Error("failed to scan share row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		shares = append(shares, &share)
	}
	if err := rows.Err(); err != nil {
		log.Error("share row iteration failed",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return shares, nil
}

// HasShare implements store.TaskStore.HasShare
func (s *PostgresTaskStore) HasShare(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (SELECT 1 FROM task_shares WHERE task_id = $1 AND user_id = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, taskID, userID).Scan(&exists); err != nil {
		log.Error("failed to check share",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return false, MapError(err)
	}

	return exists, nil
}

// categoryIDsFor loads the category links for a task, ordered by category ID.
func (s *PostgresTaskStore) categoryIDsFor(ctx context.Context, taskID uuid.UUID) ([]int64, error) {
	query := `
		SELECT category_id
		FROM task_categories
		WHERE task_id = $1
		ORDER BY category_id
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return ids, nil
}

// replaceCategoryLinks rewrites the task_categories rows for a task.
func (s *PostgresTaskStore) replaceCategoryLinks(ctx context.Context, taskID uuid.UUID, categoryIDs []int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM task_categories WHERE task_id = $1`, taskID); err != nil {
		return MapError(err)
	}

	for _, categoryID := range categoryIDs {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO task_categories (task_id, category_id) VALUES ($1, $2)`,
			taskID,
			categoryID,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return store.ErrInvalidEntity
			}
			if IsUniqueViolation(err) {
				continue
			}
			return MapError(err)
		}
	}

	return nil
}
