package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the database probe.
const healthCheckTimeout = time.Second

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /health. Responds 204 when the database answers a
// trivial query within the timeout, 503 otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	var one int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		slog.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
