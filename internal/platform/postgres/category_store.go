package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/platform/logger"
	"github.com/pluresque/taskify-api/internal/store"
)

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the
// CategoryStore interface. If logger is nil, a default logger will be used.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CategoryStore.Create
// The category's ID is assigned by the database sequence.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed",
			slog.String("error", err.Error()))
		return err
	}

	// The unique constraint only covers same-creator duplicates. A name
	// that collides with a system default, which the creator can also see,
	// must be rejected here.
	dupQuery := `
		SELECT EXISTS (
			SELECT 1
			FROM categories
			WHERE name = $1
			  AND (created_by IS NULL OR created_by = $2)
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, dupQuery, category.Name, category.CreatedBy).Scan(&exists); err != nil {
		log.Error("failed to check for duplicate category name",
			slog.String("error", err.Error()),
			slog.String("name", category.Name))
		return MapError(err)
	}
	if exists {
		log.Debug("duplicate category name in visible set",
			slog.String("name", category.Name))
		return store.ErrCategoryExists
	}

	query := `
		INSERT INTO categories (name, created_by)
		VALUES ($1, $2)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, category.Name, category.CreatedBy).Scan(&category.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate category name",
				slog.String("name", category.Name))
			return store.ErrCategoryExists
		}

		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("name", category.Name))
		return MapError(err)
	}

	log.Info("category created successfully",
		slog.Int64("category_id", category.ID),
		slog.String("name", category.Name))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_by
		FROM categories
		WHERE id = $1
	`

	var category domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedBy,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("category not found", slog.Int64("category_id", id))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category by ID",
			slog.String("error", err.Error()),
			slog.Int64("category_id", id))
		return nil, MapError(err)
	}

	return &category, nil
}

// ListVisible implements store.CategoryStore.ListVisible
// System defaults have a NULL created_by and are visible to everyone.
func (s *PostgresCategoryStore) ListVisible(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit = store.ClampLimit(limit)
	offset = store.ClampOffset(offset)

	query := `
		SELECT id, name, created_by
		FROM categories
		WHERE created_by IS NULL OR created_by = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list categories",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []*domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedBy); err != nil {
			log.Error("failed to scan category row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		log.Error("category row iteration failed",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return categories, nil
}

// CountVisibleByIDs implements store.CategoryStore.CountVisibleByIDs
func (s *PostgresCategoryStore) CountVisibleByIDs(ctx context.Context, userID uuid.UUID, ids []int64) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(DISTINCT id)
		FROM categories
		WHERE id = ANY($1)
		  AND (created_by IS NULL OR created_by = $2)
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, ids, userID).Scan(&count); err != nil {
		log.Error("failed to count visible categories",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// Delete implements store.CategoryStore.Delete
func (s *PostgresCategoryStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.Int64("category_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCategoryNotFound); err != nil {
		log.Debug("category not found for delete",
			slog.Int64("category_id", id))
		return err
	}

	log.Info("category deleted successfully",
		slog.Int64("category_id", id))
	return nil
}
