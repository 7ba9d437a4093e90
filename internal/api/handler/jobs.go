package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/ruckwatch/ruckwatch/internal/api/middleware"
	"github.com/ruckwatch/ruckwatch/internal/api/response"
	"github.com/ruckwatch/ruckwatch/internal/mirror"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// JobCreator creates analysis jobs for an owner.
type JobCreator interface {
	Create(ctx context.Context, ownerID uuid.UUID, sourceRef, displayName string) (*models.AnalysisJob, error)
	CreateFromURL(ctx context.Context, ownerID uuid.UUID, videoURL string) (*models.AnalysisJob, error)
}

// SessionProvider hands out the owner's live session.
type SessionProvider interface {
	Session(ctx context.Context, ownerID uuid.UUID) (*mirror.Session, error)
}

// jobResponse decorates a job with the status metadata the UI renders.
type jobResponse struct {
	*models.AnalysisJob
	StatusInfo models.StatusInfo `json:"status_info"`
}

func newJobResponse(job *models.AnalysisJob) jobResponse {
	return jobResponse{AnalysisJob: job, StatusInfo: job.Status.Info()}
}

// NewCreateJobHandler returns an http.HandlerFunc for POST /api/v1/jobs.
// The body names either a stored video path or a video URL, never both.
func NewCreateJobHandler(svc JobCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := mw.GetOwnerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing owner", nil)
			return
		}

		var req struct {
			Path        string `json:"path"`
			DisplayName string `json:"display_name"`
			VideoURL    string `json:"video_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if (req.Path == "") == (req.VideoURL == "") {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Exactly one of path or video_url is required", nil)
			return
		}

		var job *models.AnalysisJob
		var err error
		if req.VideoURL != "" {
			job, err = svc.CreateFromURL(r.Context(), ownerID, req.VideoURL)
		} else {
			displayName := req.DisplayName
			if displayName == "" {
				displayName = req.Path
			}
			job, err = svc.Create(r.Context(), ownerID, req.Path, displayName)
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to create job", nil)
			return
		}

		response.Created(w, newJobResponse(job))
	}
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs.
// Jobs come from the owner's mirror, newest-created first.
func NewListJobsHandler(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := mw.GetOwnerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing owner", nil)
			return
		}

		sess, err := sessions.Session(r.Context(), ownerID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to load jobs", nil)
			return
		}

		jobs := sess.Jobs()
		out := make([]jobResponse, len(jobs))
		for i, job := range jobs {
			out[i] = newJobResponse(job)
		}
		response.JSON(w, out)
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}.
func NewGetJobHandler(sessions SessionProvider) http.HandlerFunc {
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
		response.JSON(w, newJobResponse(job))
	}
}
