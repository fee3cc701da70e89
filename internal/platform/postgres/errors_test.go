package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pluresque/taskify-api/internal/store"
	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil error",
			err:  nil,
			want: nil,
		},
		{
			name: "no rows maps to not found",
			err:  sql.ErrNoRows,
			want: store.ErrNotFound,
		},
		{
			name: "unique violation maps to duplicate",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			want: store.ErrDuplicate,
		},
		{
			name: "foreign key violation maps to invalid entity",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "tasks_priority_id_fkey"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "check violation maps to invalid entity",
			err:  &pgconn.PgError{Code: "23514"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "not null violation maps to invalid entity",
			err:  &pgconn.PgError{Code: "23502", ColumnName: "title"},
			want: store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tc.err)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	err := errors.New("connection reset")
	assert.Equal(t, err, MapError(err))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrTaskNotFound))
	})

	t.Run("zero rows yields the provided sentinel", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, CheckRowsAffected(fakeResult{rows: 0}, store.ErrTaskNotFound), store.ErrTaskNotFound)
	})

	t.Run("zero rows with nil sentinel yields generic not found", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, CheckRowsAffected(fakeResult{rows: 0}, nil), store.ErrNotFound)
	})

	t.Run("rows affected error is wrapped", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{err: errors.New("driver")}, nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil result is an error", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, nil))
	})
}
