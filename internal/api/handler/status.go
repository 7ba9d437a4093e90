package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/ruckwatch/ruckwatch/internal/api/middleware"
	"github.com/ruckwatch/ruckwatch/internal/api/response"
	"github.com/ruckwatch/ruckwatch/internal/cache"
	"github.com/ruckwatch/ruckwatch/internal/store"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// StatusCache is the slice of the cache layer status polling needs.
type StatusCache interface {
	GetJobStatus(ctx context.Context, ownerID, jobID uuid.UUID) (models.JobStatus, bool, error)
	SetJobStatus(ctx context.Context, ownerID, jobID uuid.UUID, status models.JobStatus, ttl time.Duration) error
}

// JobGetter reads a single owner-scoped job from the authoritative store.
type JobGetter interface {
	GetJob(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.AnalysisJob, error)
}

type statusResponse struct {
	ID         uuid.UUID         `json:"id"`
	Status     models.JobStatus  `json:"status"`
	StatusInfo models.StatusInfo `json:"status_info"`
}

// NewJobStatusHandler returns an http.HandlerFunc for
// GET /api/v1/jobs/{jobID}/status.
//
// Status polls are the hottest read while a job runs, so they are answered
// from the cache the change stream keeps warm; a miss falls back to the
// store and backfills the entry.
func NewJobStatusHandler(statuses StatusCache, st JobGetter) http.HandlerFunc {
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

		status, found, err := statuses.GetJobStatus(r.Context(), ownerID, jobID)
		if err != nil {
			// Cache trouble degrades to a store read.
			slog.Warn("job status cache read failed", "job_id", jobID, "error", err)
			found = false
		}

		if !found {
			job, err := st.GetJob(r.Context(), jobID, ownerID)
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Job not found", nil)
				return
			}
			if err != nil {
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "Failed to load job", nil)
				return
			}
			status = job.Status

			if err := statuses.SetJobStatus(r.Context(), ownerID, jobID, status, cache.JobStatusTTL); err != nil {
				slog.Warn("job status cache backfill failed", "job_id", jobID, "error", err)
			}
		}

		response.JSON(w, statusResponse{
			ID:         jobID,
			Status:     status,
			StatusInfo: status.Info(),
		})
	}
}
