// Package main implements the entry point for the Taskify API server,
// a task management service with JWT authentication, task sharing and
// email notifications.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/pluresque/taskify-api/internal/config"
	"github.com/pluresque/taskify-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run database migrations (up|down|status) and exit")
	bootstrap := flag.Bool("bootstrap", false, "seed priorities and default categories, then exit")
	flag.Parse()

	// A local .env is optional; real deployments use environment variables.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd, appLogger); err != nil {
			appLogger.Error("migration failed", "command", *migrateCmd, "error", err)
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to initialize application", "error", err)
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if *bootstrap {
		if err := app.bootstrap(context.Background()); err != nil {
			appLogger.Error("bootstrap failed", "error", err)
			log.Fatalf("bootstrap failed: %v", err)
		}
		return
	}

	if err := app.run(context.Background()); err != nil {
		appLogger.Error("server exited with error", "error", err)
		log.Fatalf("server exited with error: %v", err)
	}
}
