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

// UserUpdate describes a partial update to a user's account. Nil fields
// are left unchanged.
type UserUpdate struct {
	Email    *string
	Password *string
}

// UserService provides user account operations
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateUser creates a new user with the specified email and password
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)

	// UpdateUser applies a partial update to the user's email and/or
	// password and returns the updated user
	UpdateUser(ctx context.Context, userID uuid.UUID, update UserUpdate) (*domain.User, error)

	// VerifyUser marks the user's email address as verified
	VerifyUser(ctx context.Context, userID uuid.UUID) error

	// DeleteUser deletes a user by their ID. Owned tasks and share relations
	// are removed with the account; categories the user created become
	// system defaults.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) UserService {
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user by email",
				"error", err)
		}
		return nil, fmt.Errorf("failed to retrieve user by email: %w", err)
	}

	return user, nil
}

// CreateUser creates a new user with the specified email and password.
// Uses a transaction to ensure atomicity of the operation.
func (s *UserServiceImpl) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})

	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to create user with existing email")
		} else {
			s.logger.Error("failed to save user",
				"error", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID)

	return user, nil
}

// UpdateUser applies a partial update inside a transaction, following the
// pattern of loading the complete user first and writing it back whole.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, userID uuid.UUID, update UserUpdate) (*domain.User, error) {
	var updated *domain.User

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve user for update: %w", err)
		}

		if update.Email != nil {
			user.Email = *update.Email
		}
		if update.Password != nil {
			// The store hashes the plaintext password on write.
			user.Password = *update.Password
		}

		if err := txStore.Update(ctx, user); err != nil {
			if errors.Is(err, store.ErrEmailExists) {
				s.logger.Debug("attempted to update to an existing email",
					"user_id", userID)
			} else {
				s.logger.Error("failed to update user",
					"error", err,
					"user_id", userID)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		updated = user
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated successfully",
		"user_id", userID)

	return updated, nil
}

// VerifyUser marks the user's email address as verified. Verifying an
// already verified account succeeds without effect.
func (s *UserServiceImpl) VerifyUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userStore.SetVerified(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("attempted to verify non-existent user",
				"user_id", userID)
		} else {
			s.logger.Error("failed to verify user",
				"error", err,
				"user_id", userID)
		}
		return fmt.Errorf("failed to verify user: %w", err)
	}

	s.logger.Info("user verified",
		"user_id", userID)
	return nil
}

// DeleteUser deletes a user by their ID inside a transaction
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("attempted to delete non-existent user",
				"user_id", userID)
		} else {
			s.logger.Error("failed to delete user",
				"error", err,
				"user_id", userID)
		}
		return err
	}

	s.logger.Info("user deleted successfully",
		"user_id", userID)

	return nil
}
