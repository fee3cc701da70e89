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
	"golang.org/x/crypto/bcrypt"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction
// managed by the caller, and the bcrypt cost used to hash passwords.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
		logger:     s.logger,
	}
}

// Create implements store.UserStore.Create
// It hashes the plaintext password, clears it from the struct, and inserts
// the row. Returns store.ErrEmailExists on a duplicate email.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return err
		}
		user.HashedPassword = string(hashed)
		user.Password = ""
	}

	query := `
		INSERT INTO users (id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, hashed_password, is_verified, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, MapError(err)
	}

	return &user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, hashed_password, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found by email")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &user, nil
}

// Update implements store.UserStore.Update
// If a plaintext Password is set it is hashed and replaces the stored hash.
// Returns store.ErrUserNotFound if the user does not exist and
// store.ErrEmailExists when updating to a taken email.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return err
		}
		user.HashedPassword = string(hashed)
		user.Password = ""
	}

	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, hashed_password = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Email,
		user.HashedPassword,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate email during user update",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for update",
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user updated successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// SetVerified implements store.UserStore.SetVerified
// Returns store.ErrUserNotFound if the user does not exist. Marking an
// already verified user again is a no-op.
func (s *PostgresUserStore) SetVerified(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET is_verified = TRUE, updated_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to mark user as verified",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for verification",
			slog.String("user_id", id.String()))
		return err
	}

	log.Info("user marked as verified",
		slog.String("user_id", id.String()))
	return nil
}

// Delete implements store.UserStore.Delete
// Categories the user created are detached to system defaults before the
// row is removed; tasks and shares go with the user via FK cascade.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	detach := `
		UPDATE categories
		SET created_by = NULL
		WHERE created_by = $1
	`
	if _, err := s.db.ExecContext(ctx, detach, id); err != nil {
		log.Error("failed to detach user categories",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for delete",
			slog.String("user_id", id.String()))
		return err
	}

	log.Info("user deleted successfully",
		slog.String("user_id", id.String()))
	return nil
}
