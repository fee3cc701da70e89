// Package mail delivers transactional email over SMTP. A disabled
// configuration yields a no-op mailer so the rest of the application never
// has to check whether email is wired up.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/pluresque/taskify-api/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// TaskSharedData carries the fields rendered into the task-shared email.
type TaskSharedData struct {
	To         string
	TaskTitle  string
	OwnerEmail string
}

// PasswordResetData carries the fields rendered into the password-reset
// email. ResetURL already includes the one-time token.
type PasswordResetData struct {
	To       string
	ResetURL string
}

// VerificationData carries the fields rendered into the account
// verification email. VerifyURL already includes the one-time token.
type VerificationData struct {
	To        string
	VerifyURL string
}

// Mailer defines the interface for sending notification emails.
type Mailer interface {
	// SendTaskShared notifies a user that a task was shared with them.
	SendTaskShared(ctx context.Context, data TaskSharedData) error

	// SendPasswordReset delivers a password reset link.
	SendPasswordReset(ctx context.Context, data PasswordResetData) error

	// SendVerification delivers an account verification link.
	SendVerification(ctx context.Context, data VerificationData) error
}

// SMTPMailer implements Mailer using an SMTP server via gomail.
type SMTPMailer struct {
	dialer    *gomail.Dialer
	from      string
	templates *template.Template
	logger    *slog.Logger
}

// NewSMTPMailer creates a Mailer for the given SMTP configuration. When the
// configuration is incomplete it returns a no-op mailer that logs instead
// of sending.
func NewSMTPMailer(cfg config.SMTPConfig, logger *slog.Logger) (Mailer, error) {
	if !cfg.Enabled() {
		logger.Warn("SMTP not configured, email delivery disabled")
		return &noopMailer{logger: logger.With(slog.String("component", "noop_mailer"))}, nil
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	return &SMTPMailer{
		dialer:    dialer,
		from:      cfg.FromAddress,
		templates: templates,
		logger:    logger.With(slog.String("component", "smtp_mailer")),
	}, nil
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// SendTaskShared implements Mailer.SendTaskShared
func (m *SMTPMailer) SendTaskShared(ctx context.Context, data TaskSharedData) error {
	subject := fmt.Sprintf("%s shared a task with you", data.OwnerEmail)
	return m.send(ctx, data.To, subject, "task_shared.html", data)
}

// SendPasswordReset implements Mailer.SendPasswordReset
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, data PasswordResetData) error {
	return m.send(ctx, data.To, "Reset your password", "password_reset.html", data)
}

// SendVerification implements Mailer.SendVerification
func (m *SMTPMailer) SendVerification(ctx context.Context, data VerificationData) error {
	return m.send(ctx, data.To, "Verify your email address", "verification.html", data)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, templateName string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("failed to render email template %s: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent",
		slog.String("template", templateName))
	return nil
}

// noopMailer logs instead of sending. Used when SMTP is not configured.
type noopMailer struct {
	logger *slog.Logger
}

var _ Mailer = (*noopMailer)(nil)

func (m *noopMailer) SendTaskShared(_ context.Context, data TaskSharedData) error {
	m.logger.Info("email delivery disabled, skipping task-shared email",
		slog.String("task_title", data.TaskTitle))
	return nil
}

func (m *noopMailer) SendPasswordReset(_ context.Context, _ PasswordResetData) error {
	m.logger.Info("email delivery disabled, skipping password-reset email")
	return nil
}

func (m *noopMailer) SendVerification(_ context.Context, _ VerificationData) error {
	m.logger.Info("email delivery disabled, skipping verification email")
	return nil
}
