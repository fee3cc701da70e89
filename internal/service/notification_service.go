package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pluresque/taskify-api/internal/platform/mail"
	"github.com/pluresque/taskify-api/internal/worker"
)

// EmailJobExecutor implements worker.JobExecutor by rendering and sending
// the email described by each notification job.
type EmailJobExecutor struct {
	mailer mail.Mailer
	logger *slog.Logger
}

// NewEmailJobExecutor creates an executor bound to the given mailer
func NewEmailJobExecutor(mailer mail.Mailer, logger *slog.Logger) *EmailJobExecutor {
	return &EmailJobExecutor{
		mailer: mailer,
		logger: logger.With("component", "email_job_executor"),
	}
}

// Ensure EmailJobExecutor implements worker.JobExecutor
var _ worker.JobExecutor = (*EmailJobExecutor)(nil)

// Execute dispatches on the job type and sends the corresponding email
func (e *EmailJobExecutor) Execute(ctx context.Context, job *worker.Job) error {
	switch job.Type {
	case worker.JobTypeTaskSharedEmail:
		var payload worker.TaskSharedEmailPayload
		if err := job.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode task-shared payload: %w", err)
		}
		return e.mailer.SendTaskShared(ctx, mail.TaskSharedData{
			To:         payload.RecipientEmail,
			TaskTitle:  payload.TaskTitle,
			OwnerEmail: payload.OwnerEmail,
		})

	case worker.JobTypePasswordResetEmail:
		var payload worker.PasswordResetEmailPayload
		if err := job.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode password-reset payload: %w", err)
		}
		return e.mailer.SendPasswordReset(ctx, mail.PasswordResetData{
			To:       payload.Email,
			ResetURL: payload.ResetURL,
		})

	case worker.JobTypeVerificationEmail:
		var payload worker.VerificationEmailPayload
		if err := job.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode verification payload: %w", err)
		}
		return e.mailer.SendVerification(ctx, mail.VerificationData{
			To:        payload.Email,
			VerifyURL: payload.VerifyURL,
		})

	default:
		e.logger.Warn("unknown job type, skipping",
			"job_id", job.ID,
			"job_type", job.Type)
		return nil
	}
}
