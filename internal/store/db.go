package store

import (
	"context"
	"database/sql"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sql.DB and *sql.Tx, allowing store code
// to work with either a database connection or a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Pagination bounds for list queries. Limits above MaxListLimit are clamped,
// non-positive limits fall back to DefaultListLimit.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ClampLimit normalizes a caller-supplied limit into the allowed range.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ClampOffset normalizes a caller-supplied offset.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
