package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pluresque/taskify-api/internal/events"
)

// JobSubmitter is the subset of the Runner used by the event handler.
type JobSubmitter interface {
	Submit(ctx context.Context, job *Job) error
}

// EnqueueEventHandler implements events.EventHandler by converting
// notification events into persistent jobs and submitting them to the
// runner.
type EnqueueEventHandler struct {
	submitter JobSubmitter
	logger    *slog.Logger
}

// NewEnqueueEventHandler creates an event handler bound to the given
// submitter, normally the job Runner.
func NewEnqueueEventHandler(submitter JobSubmitter, logger *slog.Logger) *EnqueueEventHandler {
	return &EnqueueEventHandler{
		submitter: submitter,
		logger:    logger.With("component", "enqueue_event_handler"),
	}
}

// Ensure EnqueueEventHandler implements events.EventHandler
var _ events.EventHandler = (*EnqueueEventHandler)(nil)

// HandleEvent converts the event into a job and hands it to the runner.
// Events with an unknown type are ignored.
func (h *EnqueueEventHandler) HandleEvent(ctx context.Context, event *events.NotificationEvent) error {
	switch event.Type {
	case JobTypeTaskSharedEmail, JobTypePasswordResetEmail:
	default:
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	job := &Job{
		ID:        event.ID,
		Type:      event.Type,
		Payload:   event.Payload,
		Status:    JobStatusPending,
		CreatedAt: event.CreatedAt,
		UpdatedAt: event.CreatedAt,
	}

	if err := h.submitter.Submit(ctx, job); err != nil {
		h.logger.Error("failed to submit job",
			"error", err,
			"job_id", job.ID,
			"job_type", job.Type)
		return fmt.Errorf("failed to submit job: %w", err)
	}

	h.logger.Debug("job submitted",
		"job_id", job.ID,
		"job_type", job.Type)
	return nil
}
