package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/ruckwatch/ruckwatch/internal/api/middleware"
	"github.com/ruckwatch/ruckwatch/internal/api/response"
	"github.com/ruckwatch/ruckwatch/internal/results"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// ResultsLoader fetches a job's result artifacts. Absent or unreadable
// artifacts come back empty inside the set, never as an error.
type ResultsLoader interface {
	Load(ctx context.Context, job *models.AnalysisJob) *results.ResultSet
}

// NewResultsHandler returns an http.HandlerFunc for
// GET /api/v1/jobs/{jobID}/results.
//
// Each request re-selects the job on the session's view before loading, so
// a slow load for a previously selected job can never overwrite the view
// after the owner has moved on.
func NewResultsHandler(sessions SessionProvider, loader ResultsLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := mw.GetOwnerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing owner", nil)
			return
		}

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job id", nil)
			return
		}

		sess, err := sessions.Session(r.Context(), ownerID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to load jobs", nil)
			return
		}

		job, found := sess.Job(jobID)
		if !found {
			response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Job not found", nil)
			return
		}

		token := sess.View.Select(jobID)
		rs := loader.Load(r.Context(), job)
		sess.View.Deliver(token, rs)

		response.JSON(w, rs)
	}
}
