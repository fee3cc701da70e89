package main

import (
	"database/sql"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pluresque/taskify-api/internal/config"
	"github.com/pluresque/taskify-api/internal/events"
	"github.com/pluresque/taskify-api/internal/platform/mail"
	"github.com/pluresque/taskify-api/internal/platform/postgres"
	"github.com/pluresque/taskify-api/internal/service"
	"github.com/pluresque/taskify-api/internal/service/auth"
	"github.com/pluresque/taskify-api/internal/store"
	"github.com/pluresque/taskify-api/internal/worker"
)

// application holds the shared application dependencies to simplify wiring
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	taskStore     store.TaskStore
	categoryStore store.CategoryStore
	priorityStore store.PriorityStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	taskService      service.TaskService
	categoryService  service.CategoryService

	// Notification pipeline
	emitter   *events.InMemoryEventEmitter
	jobRunner *worker.Runner
}

// newApplication wires the full dependency graph: database, stores,
// services, mailer and the notification job runner. The runner is started
// here; run() starts the HTTP server.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	categoryStore := postgres.NewPostgresCategoryStore(db, logger)
	priorityStore := postgres.NewPostgresPriorityStore(db, logger)
	jobStore := postgres.NewPostgresJobStore(db, logger)

	mailer, err := mail.NewSMTPMailer(cfg.SMTP, logger)
	if err != nil {
		return nil, err
	}

	runnerCfg := worker.DefaultRunnerConfig()
	if cfg.Worker.Count > 0 {
		runnerCfg.WorkerCount = cfg.Worker.Count
	}
	if cfg.Worker.QueueSize > 0 {
		runnerCfg.QueueSize = cfg.Worker.QueueSize
	}
	if cfg.Worker.StuckJobAgeMinutes > 0 {
		runnerCfg.StuckJobAge = time.Duration(cfg.Worker.StuckJobAgeMinutes) * time.Minute
	}
	if cfg.Worker.JobMaxSendAttempts > 0 {
		runnerCfg.MaxAttempts = cfg.Worker.JobMaxSendAttempts
	}

	executor := service.NewEmailJobExecutor(mailer, logger)
	jobRunner := worker.NewRunner(jobStore, executor, runnerCfg, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(worker.NewEnqueueEventHandler(jobRunner, logger))

	userService := service.NewUserService(userStore, db, logger)
	taskService := service.NewTaskService(db, taskStore, userStore, categoryStore, priorityStore, emitter, logger)
	categoryService := service.NewCategoryService(db, categoryStore, priorityStore, logger)

	if err := jobRunner.Start(); err != nil {
		return nil, err
	}

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		taskStore:        taskStore,
		categoryStore:    categoryStore,
		priorityStore:    priorityStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		userService:      userService,
		taskService:      taskService,
		categoryService:  categoryService,
		emitter:          emitter,
		jobRunner:        jobRunner,
	}, nil
}

// cleanup releases resources in reverse order of acquisition.
func (app *application) cleanup() {
	if app.jobRunner != nil {
		app.jobRunner.Stop()
		app.jobRunner = nil
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
		app.db = nil
	}
}
