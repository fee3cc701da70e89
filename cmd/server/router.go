package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pluresque/taskify-api/internal/api"
	apiMiddleware "github.com/pluresque/taskify-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	corsOrigins := app.config.Server.CORSOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.passwordVerifier,
		app.emitter,
		app.config.Server.FrontendBaseURL,
	)
	userHandler := api.NewUserHandler(app.userService)
	taskHandler := api.NewTaskHandler(app.taskService)
	categoryHandler := api.NewCategoryHandler(app.categoryService)
	healthHandler := api.NewHealthHandler(app.db)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/auth/reset-password", authHandler.ResetPassword)
		r.Post("/auth/request-verify", authHandler.RequestVerify)
		r.Post("/auth/verify", authHandler.Verify)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Account endpoints
			r.Get("/users/me", userHandler.GetMe)
			r.Patch("/users/me", userHandler.UpdateMe)
			r.Delete("/users/me", userHandler.DeleteMe)

			// Task endpoints
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Patch("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)

			// Share endpoints
			r.Post("/tasks/{id}/shares", taskHandler.ShareTask)
			r.Get("/tasks/{id}/shares", taskHandler.ListShares)
			r.Delete("/tasks/{id}/shares/{userID}", taskHandler.UnshareTask)

			// Category and priority endpoints
			r.Post("/categories", categoryHandler.CreateCategory)
			r.Get("/categories", categoryHandler.ListCategories)
			r.Delete("/categories/{id}", categoryHandler.DeleteCategory)
			r.Get("/priorities", categoryHandler.ListPriorities)
		})
	})

	// Health check endpoint
	r.Get("/health", healthHandler.Check)

	return r
}
