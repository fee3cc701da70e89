package postgres

import (
	"context"
	"log/slog"

	"github.com/pluresque/taskify-api/internal/domain"
	"github.com/pluresque/taskify-api/internal/platform/logger"
	"github.com/pluresque/taskify-api/internal/store"
)

// PostgresPriorityStore implements the store.PriorityStore interface.
// Priorities are a seeded lookup table and are never written at runtime.
type PostgresPriorityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPriorityStore creates a new PostgreSQL implementation of the
// PriorityStore interface. If logger is nil, a default logger will be used.
func NewPostgresPriorityStore(db store.DBTX, logger *slog.Logger) *PostgresPriorityStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPriorityStore{
		db:     db,
		logger: logger.With(slog.String("component", "priority_store")),
	}
}

// Ensure PostgresPriorityStore implements store.PriorityStore interface
var _ store.PriorityStore = (*PostgresPriorityStore)(nil)

// List implements store.PriorityStore.List
func (s *PostgresPriorityStore) List(ctx context.Context) ([]*domain.Priority, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM priorities ORDER BY id`)
	if err != nil {
		log.Error("failed to list priorities",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	priorities := []*domain.Priority{}
	for rows.Next() {
		var priority domain.Priority
		if err := rows.Scan(&priority.ID, &priority.Name); err != nil {
			log.Error("failed to scan priority row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		priorities = append(priorities, &priority)
	}
	if err := rows.Err(); err != nil {
		log.Error("priority row iteration failed",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return priorities, nil
}

// Exists implements store.PriorityStore.Exists
func (s *PostgresPriorityStore) Exists(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM priorities WHERE id = $1)`
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		log.Error("failed to check priority",
			slog.String("error", err.Error()),
			slog.Int64("priority_id", id))
		return false, MapError(err)
	}

	return exists, nil
}
