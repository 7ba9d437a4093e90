package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/ruckwatch/ruckwatch/internal/api/middleware"
	"github.com/ruckwatch/ruckwatch/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler    http.HandlerFunc
	UploadHandler    http.HandlerFunc
	CreateJobHandler http.HandlerFunc
	ListJobsHandler  http.HandlerFunc
	GetJobHandler    http.HandlerFunc
	JobStatusHandler http.HandlerFunc
	ResultsHandler   http.HandlerFunc
	WatchHandler     http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/videos", orNotImplemented(deps.UploadHandler))

		r.Post("/api/v1/jobs", orNotImplemented(deps.CreateJobHandler))
		r.Get("/api/v1/jobs", orNotImplemented(deps.ListJobsHandler))
		r.Get("/api/v1/jobs/watch", orNotImplemented(deps.WatchHandler))
		r.Get("/api/v1/jobs/{jobID}", orNotImplemented(deps.GetJobHandler))
		r.Get("/api/v1/jobs/{jobID}/status", orNotImplemented(deps.JobStatusHandler))
		r.Get("/api/v1/jobs/{jobID}/results", orNotImplemented(deps.ResultsHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
