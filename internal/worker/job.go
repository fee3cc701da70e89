package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current state of a background job
type JobStatus string

// Possible job status values
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job type constants
const (
	// JobTypeTaskSharedEmail notifies a user that a task was shared with them
	JobTypeTaskSharedEmail = "task_shared_email"

	// JobTypePasswordResetEmail delivers a password reset link
	JobTypePasswordResetEmail = "password_reset_email"

	// JobTypeVerificationEmail delivers an account verification link
	JobTypeVerificationEmail = "verification_email"
)

// Job is a unit of background work persisted across restarts. The payload
// is opaque JSON interpreted by the executor according to the job type.
type Job struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    JobStatus       `json:"status"`
	Attempts  int             `json:"attempts"`
	LastError string          `json:"last_error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewJob creates a pending job of the given type, serializing the payload
// to JSON.
func NewJob(jobType string, payload interface{}) (*Job, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New(),
		Type:      jobType,
		Payload:   payloadBytes,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UnmarshalPayload decodes the job payload into the provided structure.
func (j *Job) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(j.Payload, v)
}

// JobExecutor performs the actual work for a job. Implementations dispatch
// on the job's Type.
type JobExecutor interface {
	// Execute runs the job. A returned error marks the attempt as failed;
	// the runner decides whether to retry based on the attempt count.
	Execute(ctx context.Context, job *Job) error
}

// JobStore defines the interface for persisting jobs
type JobStore interface {
	// Save persists a new job
	Save(ctx context.Context, job *Job) error

	// Update persists a job's status, attempt count and last error
	Update(ctx context.Context, job *Job) error

	// ListPending retrieves all jobs with "pending" status, oldest first
	ListPending(ctx context.Context) ([]*Job, error)

	// ListProcessing retrieves jobs with "processing" status. If olderThan
	// is non-zero, only jobs that have been in that state longer than the
	// given duration are returned.
	ListProcessing(ctx context.Context, olderThan time.Duration) ([]*Job, error)

	// WithTx returns a new JobStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) JobStore
}
