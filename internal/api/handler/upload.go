package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	mw "github.com/ruckwatch/ruckwatch/internal/api/middleware"
	"github.com/ruckwatch/ruckwatch/internal/api/response"
)

// maxUploadBytes caps a single video upload at 2 GiB.
const maxUploadBytes = 2 << 30

// VideoUploader stores a source video and returns its stored path.
type VideoUploader interface {
	UploadVideo(ctx context.Context, ownerID uuid.UUID, filename string, body io.Reader) (string, error)
}

// NewUploadHandler returns an http.HandlerFunc for POST /api/v1/videos.
// The video arrives as the "video" part of a multipart form. An upload
// failure surfaces as an error; no job is created from this endpoint.
func NewUploadHandler(svc VideoUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := mw.GetOwnerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing owner", nil)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		file, header, err := r.FormFile("video")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Multipart form must contain a video part", nil)
			return
		}
		defer file.Close()

		path, err := svc.UploadVideo(r.Context(), ownerID, header.Filename, file)
		if err != nil {
			response.Error(w, http.StatusBadGateway, "UPLOAD_FAILED",
				"Failed to store the video", nil)
			return
		}

		response.Created(w, map[string]string{
			"path":         path,
			"display_name": header.Filename,
		})
	}
}
