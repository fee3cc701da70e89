package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/store"
)

// CategoryService provides category and priority lookup operations.
//
// Categories come in two flavors: system defaults, visible to everyone and
// owned by nobody, and user categories, visible only to their creator.
type CategoryService interface {
	// CreateCategory creates a category owned by the user
	CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error)

	// ListCategories retrieves the categories visible to the user
	ListCategories(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Category, error)

	// DeleteCategory removes a category the user created. System defaults
	// and other users' categories yield ErrNotOwned.
	DeleteCategory(ctx context.Context, userID uuid.UUID, categoryID int64) error

	// ListPriorities retrieves the fixed priority levels
	ListPriorities(ctx context.Context) ([]*domain.Priority, error)
}

// CategoryServiceImpl implements the CategoryService interface
type CategoryServiceImpl struct {
	db            *sql.DB
	categoryStore store.CategoryStore
	priorityStore store.PriorityStore
	logger        *slog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	db *sql.DB,
	categoryStore store.CategoryStore,
	priorityStore store.PriorityStore,
	logger *slog.Logger,
) CategoryService {
	return &CategoryServiceImpl{
		db:            db,
		categoryStore: categoryStore,
		priorityStore: priorityStore,
		logger:        logger.With("component", "category_service"),
	}
}

// CreateCategory creates a category owned by the user
func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	category, err := domain.NewCategory(name, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.categoryStore.WithTx(tx).Create(ctx, category)
	})

	if err != nil {
		if errors.Is(err, store.ErrCategoryExists) {
			s.logger.Debug("attempted to create duplicate category",
				"user_id", userID,
				"name", name)
		} else {
			s.logger.Error("failed to save category",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"user_id", userID)

	return category, nil
}

// ListCategories retrieves the categories visible to the user
func (s *CategoryServiceImpl) ListCategories(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Category, error) {
	categories, err := s.categoryStore.ListVisible(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list categories",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// DeleteCategory removes a category the user created
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, userID uuid.UUID, categoryID int64) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.categoryStore.WithTx(tx)

		category, err := txStore.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}

		// System defaults have no creator and cannot be deleted through
		// the API.
		if !category.IsCreatedBy(userID) {
			return ErrNotOwned
		}

		if err := txStore.Delete(ctx, categoryID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		s.logger.Info("category deleted",
			"category_id", categoryID,
			"user_id", userID)
		return nil
	})
}

// ListPriorities retrieves the fixed priority levels
func (s *CategoryServiceImpl) ListPriorities(ctx context.Context) ([]*domain.Priority, error) {
	priorities, err := s.priorityStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list priorities",
			"error", err)
		return nil, fmt.Errorf("failed to list priorities: %w", err)
	}

	return priorities, nil
}
