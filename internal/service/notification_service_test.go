package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/pluresque/taskify-api/internal/platform/mail"
	"github.com/pluresque/taskify-api/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMailer captures sends for assertions.
type recordingMailer struct {
	taskShared    []mail.TaskSharedData
	passwordReset []mail.PasswordResetData
	verification  []mail.VerificationData
	err           error
}

func (m *recordingMailer) SendTaskShared(_ context.Context, data mail.TaskSharedData) error {
	m.taskShared = append(m.taskShared, data)
	return m.err
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, data mail.PasswordResetData) error {
	m.passwordReset = append(m.passwordReset, data)
	return m.err
}

func (m *recordingMailer) SendVerification(_ context.Context, data mail.VerificationData) error {
	m.verification = append(m.verification, data)
	return m.err
}

func TestEmailJobExecutorTaskShared(t *testing.T) {
	mailer := &recordingMailer{}
	executor := NewEmailJobExecutor(mailer, slog.Default())

	job, err := worker.NewJob(worker.JobTypeTaskSharedEmail, worker.TaskSharedEmailPayload{
		RecipientEmail: "bob@example.com",
		TaskTitle:      "Quarterly report",
		OwnerEmail:     "alice@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, executor.Execute(context.Background(), job))
	require.Len(t, mailer.taskShared, 1)
	assert.Equal(t, "bob@example.com", mailer.taskShared[0].To)
	assert.Equal(t, "Quarterly report", mailer.taskShared[0].TaskTitle)
	assert.Equal(t, "alice@example.com", mailer.taskShared[0].OwnerEmail)
}

func TestEmailJobExecutorPasswordReset(t *testing.T) {
	mailer := &recordingMailer{}
	executor := NewEmailJobExecutor(mailer, slog.Default())

	job, err := worker.NewJob(worker.JobTypePasswordResetEmail, worker.PasswordResetEmailPayload{
		Email:    "alice@example.com",
		ResetURL: "https://app.example.com/reset-password?token=abc",
	})
	require.NoError(t, err)

	require.NoError(t, executor.Execute(context.Background(), job))
	require.Len(t, mailer.passwordReset, 1)
	assert.Equal(t, "alice@example.com", mailer.passwordReset[0].To)
	assert.Equal(t, "https://app.example.com/reset-password?token=abc", mailer.passwordReset[0].ResetURL)
}

func TestEmailJobExecutorVerification(t *testing.T) {
	mailer := &recordingMailer{}
	executor := NewEmailJobExecutor(mailer, slog.Default())

	job, err := worker.NewJob(worker.JobTypeVerificationEmail, worker.VerificationEmailPayload{
		Email:     "alice@example.com",
		VerifyURL: "https://app.example.com/verify-email?token=abc",
	})
	require.NoError(t, err)

	require.NoError(t, executor.Execute(context.Background(), job))
	require.Len(t, mailer.verification, 1)
	assert.Equal(t, "alice@example.com", mailer.verification[0].To)
	assert.Equal(t, "https://app.example.com/verify-email?token=abc", mailer.verification[0].VerifyURL)
}

func TestEmailJobExecutorPropagatesMailerError(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp unavailable")}
	executor := NewEmailJobExecutor(mailer, slog.Default())

	job, err := worker.NewJob(worker.JobTypeTaskSharedEmail, worker.TaskSharedEmailPayload{
		RecipientEmail: "bob@example.com",
	})
	require.NoError(t, err)

	assert.Error(t, executor.Execute(context.Background(), job))
}

func TestEmailJobExecutorUnknownTypeIsSkipped(t *testing.T) {
	mailer := &recordingMailer{}
	executor := NewEmailJobExecutor(mailer, slog.Default())

	job, err := worker.NewJob("carrier_pigeon", map[string]string{"to": "bob"})
	require.NoError(t, err)

	assert.NoError(t, executor.Execute(context.Background(), job))
	assert.Empty(t, mailer.taskShared)
	assert.Empty(t, mailer.passwordReset)
}

func TestEmailJobExecutorMalformedPayload(t *testing.T) {
	mailer := &recordingMailer{}
	executor := NewEmailJobExecutor(mailer, slog.Default())

	job, err := worker.NewJob(worker.JobTypeTaskSharedEmail, "just a string")
	require.NoError(t, err)
	job.Payload = json.RawMessage(`{broken`)

	assert.Error(t, executor.Execute(context.Background(), job))
	assert.Empty(t, mailer.taskShared)
}
