package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/pluresque/taskify-api/internal/config"
	"github.com/pluresque/taskify-api/migrations"
)

// slogGooseLogger adapts goose's logger to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// runMigrations executes the requested goose command against the embedded
// migration files.
func runMigrations(cfg *config.Config, command string, logger *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("failed to close database after migrations", "error", closeErr)
		}
	}()

	logger.Info("running migrations", "command", command)

	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	logger.Info("migrations finished", "command", command)
	return nil
}
