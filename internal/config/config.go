package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// CORSOrigins lists the origins allowed by the CORS middleware.
	CORSOrigins []string `mapstructure:"cors_origins"`

	// FrontendBaseURL is the base URL used when building links embedded in
	// notification emails (e.g. the password reset page).
	FrontendBaseURL string `mapstructure:"frontend_base_url" validate:"omitempty,url"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	ResetTokenLifetimeMinutes   int    `mapstructure:"reset_token_lifetime_minutes"   validate:"required,gt=0"`

	// VerificationTokenLifetimeMinutes bounds account verification links.
	VerificationTokenLifetimeMinutes int `mapstructure:"verification_token_lifetime_minutes" validate:"required,gt=0"`
}

// SMTPConfig contains outgoing email settings. Email delivery is disabled
// when Host, Port, or FromAddress is unset; the API still accepts all
// requests and notification jobs complete as no-ops.
type SMTPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName    string `mapstructure:"from_name"`
}

// Enabled reports whether enough SMTP settings are present to send email.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port != 0 && c.FromAddress != ""
}

// WorkerConfig tunes the background notification job runner.
type WorkerConfig struct {
	Count               int `mapstructure:"count"                  validate:"gte=0"`
	QueueSize           int `mapstructure:"queue_size"             validate:"gte=0"`
	StuckJobAgeMinutes  int `mapstructure:"stuck_job_age_minutes"  validate:"gte=0"`
	JobMaxSendAttempts  int `mapstructure:"job_max_send_attempts"  validate:"gte=0"`
}
