package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func newTestUser(t *testing.T) *domain.User {
	t.Helper()

	user, err := domain.NewUser("alice@example.com", "correct-horse-battery")
	require.NoError(t, err)
	return user
}

func TestNewPostgresUserStoreClampsBcryptCost(t *testing.T) {
	db, _ := newMockDB(t)

	s := NewPostgresUserStore(db, 99, nil)
	assert.Equal(t, bcrypt.DefaultCost, s.bcryptCost)

	s = NewPostgresUserStore(db, bcrypt.MinCost, nil)
	assert.Equal(t, bcrypt.MinCost, s.bcryptCost)
}

func TestNewPostgresUserStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() {
		NewPostgresUserStore(nil, bcrypt.MinCost, nil)
	})
}

func TestUserStoreCreate(t *testing.T) {
	t.Run("hashes password and inserts", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user := newTestUser(t)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, sqlmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Create(context.Background(), user)
		require.NoError(t, err)

		assert.Empty(t, user.Password, "plaintext password should be cleared after hashing")
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(user.HashedPassword), []byte("correct-horse-battery")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)
		user := newTestUser(t)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err := s.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid user is rejected before hitting the database", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		err := s.Create(context.Background(), &domain.User{ID: uuid.New(), Email: "not-an-email"})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		id := uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "email", "hashed_password", "is_verified", "created_at", "updated_at"}).
				AddRow(id, "alice@example.com", "$2a$10$hash", true, now, now))

		user, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.IsVerified)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreGetByEmail(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("query failure is mapped", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnError(errors.New("connection reset"))

		_, err := s.GetByEmail(context.Background(), "alice@example.com")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreUpdate(t *testing.T) {
	t.Run("updates email without touching the hash", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user := &domain.User{
			ID:             uuid.New(),
			Email:          "alice@example.com",
			HashedPassword: "$2a$10$existinghash",
		}

		mock.ExpectExec("UPDATE users").
			WithArgs(user.Email, "$2a$10$existinghash", sqlmock.AnyArg(), user.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Update(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$existinghash", user.HashedPassword)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("re-hashes when a new password is provided", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user := &domain.User{
			ID:             uuid.New(),
			Email:          "alice@example.com",
			Password:       "brand-new-password",
			HashedPassword: "$2a$10$oldhash",
		}

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Update(context.Background(), user)
		require.NoError(t, err)
		assert.Empty(t, user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(user.HashedPassword), []byte("brand-new-password")))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user := &domain.User{
			ID:             uuid.New(),
			Email:          "alice@example.com",
			HashedPassword: "$2a$10$hash",
		}

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user := &domain.User{
			ID:             uuid.New(),
			Email:          "taken@example.com",
			HashedPassword: "$2a$10$hash",
		}

		mock.ExpectExec("UPDATE users").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := s.Update(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserStoreSetVerified(t *testing.T) {
	t.Run("marks the user verified", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)
		id := uuid.New()

		mock.ExpectExec("UPDATE users").
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.SetVerified(context.Background(), id)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.SetVerified(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreDelete(t *testing.T) {
	t.Run("detaches categories then deletes the row", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)
		id := uuid.New()

		mock.ExpectExec("UPDATE categories").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("DELETE FROM users").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Delete(context.Background(), id)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, bcrypt.MinCost, nil)
		id := uuid.New()

		mock.ExpectExec("UPDATE categories").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Delete(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
