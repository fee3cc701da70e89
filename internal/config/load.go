package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, when present, a
// config.yaml in the working directory. Environment variables use the
// TASKIFY_ prefix with underscores for nesting (e.g. TASKIFY_DATABASE_URL,
// TASKIFY_AUTH_JWT_SECRET) and take precedence over file values.
// Returns a populated, validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env-only deployments are the norm.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("TASKIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not make env-only keys visible to Unmarshal, so each
	// key is bound explicitly.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for everything that has a sensible one.
// Secrets and connection strings deliberately have none.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.frontend_base_url", "")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 7*24*60)
	v.SetDefault("auth.reset_token_lifetime_minutes", 12*60)
	v.SetDefault("auth.verification_token_lifetime_minutes", 24*60)

	v.SetDefault("smtp.port", 0)
	v.SetDefault("smtp.from_name", "Taskify")

	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.queue_size", 100)
	v.SetDefault("worker.stuck_job_age_minutes", 30)
	v.SetDefault("worker.job_max_send_attempts", 3)
}

// configKeys lists every configuration key for explicit env binding.
func configKeys() []string {
	return []string{
		"server.port",
		"server.log_level",
		"server.cors_origins",
		"server.frontend_base_url",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"auth.refresh_token_lifetime_minutes",
		"auth.reset_token_lifetime_minutes",
		"smtp.host",
		"smtp.port",
		"smtp.username",
		"smtp.password",
		"smtp.from_address",
		"smtp.from_name",
		"worker.count",
		"worker.queue_size",
		"worker.stuck_job_age_minutes",
		"worker.job_max_send_attempts",
	}
}
