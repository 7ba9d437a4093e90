package handler

import (
	"context"
	"net/http"

	"github.com/ruckwatch/ruckwatch/internal/api/response"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/v1/health.
// It reports per-dependency status and degrades to 503 when either the
// database or the cache is unreachable.
func NewHealthHandler(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := db.Ping(r.Context()); err != nil {
			checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
		if err := cache.Ping(r.Context()); err != nil {
			checks["cache"] = "unreachable"
			status = http.StatusServiceUnavailable
		}

		if status != http.StatusOK {
			response.Error(w, status, "SERVICE_UNAVAILABLE", "A backing service is unreachable", checks)
			return
		}
		response.JSON(w, map[string]any{"status": "ok", "checks": checks})
	}
}
