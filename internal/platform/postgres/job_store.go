package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pluresque/taskify-api/internal/platform/logger"
	"github.com/pluresque/taskify-api/internal/store"
	"github.com/pluresque/taskify-api/internal/worker"
)

// PostgresJobStore implements the worker.JobStore interface
// using a PostgreSQL database as the storage backend.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgreSQL implementation of the
// JobStore interface. If logger is nil, a default logger will be used.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements worker.JobStore interface
var _ worker.JobStore = (*PostgresJobStore)(nil)

// WithTx implements worker.JobStore.WithTx
func (s *PostgresJobStore) WithTx(tx *sql.Tx) worker.JobStore {
	return &PostgresJobStore{
		db:     tx,
		logger: s.logger,
	}
}

// Save implements worker.JobStore.Save
func (s *PostgresJobStore) Save(ctx context.Context, job *worker.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO jobs (id, type, payload, status, attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Type,
		[]byte(job.Payload),
		string(job.Status),
		job.Attempts,
		job.LastError,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to save job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()),
			slog.String("job_type", job.Type))
		return MapError(err)
	}

	return nil
}

// Update implements worker.JobStore.Update
func (s *PostgresJobStore) Update(ctx context.Context, job *worker.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	job.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE jobs
		SET status = $1, attempts = $2, last_error = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		string(job.Status),
		job.Attempts,
		job.LastError,
		job.UpdatedAt,
		job.ID,
	)

	if err != nil {
		log.Error("failed to update job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrNotFound); err != nil {
		log.Debug("job not found for update",
			slog.String("job_id", job.ID.String()))
		return err
	}

	return nil
}

// ListPending implements worker.JobStore.ListPending
func (s *PostgresJobStore) ListPending(ctx context.Context) ([]*worker.Job, error) {
	return s.listByStatus(ctx, worker.JobStatusPending, 0)
}

// ListProcessing implements worker.JobStore.ListProcessing
func (s *PostgresJobStore) ListProcessing(ctx context.Context, olderThan time.Duration) ([]*worker.Job, error) {
	return s.listByStatus(ctx, worker.JobStatusProcessing, olderThan)
}

func (s *PostgresJobStore) listByStatus(ctx context.Context, status worker.JobStatus, olderThan time.Duration) ([]*worker.Job, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, payload, status, attempts, last_error, created_at, updated_at
		FROM jobs
		WHERE status = $1
		  AND updated_at <= $2
		ORDER BY created_at
	`

	cutoff := time.Now().UTC()
	if olderThan > 0 {
		cutoff = cutoff.Add(-olderThan)
	}

	rows, err := s.db.QueryContext(ctx, query, string(status), cutoff)
	if err != nil {
		log.Error("failed to list jobs",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	jobs := []*worker.Job{}
	for rows.Next() {
		var job worker.Job
		var payload []byte
		err := rows.Scan(
			&job.ID,
			&job.Type,
			&payload,
			&job.Status,
			&job.Attempts,
			&job.LastError,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan job row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		job.Payload = payload
		jobs = append(jobs, &job)
	}
	if err := rows.Err(); err != nil {
		log.Error("job row iteration failed",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return jobs, nil
}
