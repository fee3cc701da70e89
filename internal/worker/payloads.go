package worker

// TaskSharedEmailPayload is the payload for JobTypeTaskSharedEmail jobs.
type TaskSharedEmailPayload struct {
	RecipientEmail string `json:"recipient_email"`
	TaskTitle      string `json:"task_title"`
	OwnerEmail     string `json:"owner_email"`
}

// PasswordResetEmailPayload is the payload for JobTypePasswordResetEmail
// jobs. ResetURL already includes the one-time token.
type PasswordResetEmailPayload struct {
	Email    string `json:"email"`
	ResetURL string `json:"reset_url"`
}

// VerificationEmailPayload is the payload for JobTypeVerificationEmail
// jobs. VerifyURL already includes the one-time token.
type VerificationEmailPayload struct {
	Email     string `json:"email"`
	VerifyURL string `json:"verify_url"`
}
