// Package jobs creates analysis jobs and stores their source videos. The
// serving path only ever creates jobs; status transitions belong to the
// worker and arrive back through the change stream.
package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruckwatch/ruckwatch/internal/mirror"
	"github.com/ruckwatch/ruckwatch/internal/store"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// youtubeIDPattern extracts the video id from the watch, short-link and
// embed URL shapes.
var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\s?]+)`)

// Service creates jobs against the authoritative store and keeps the
// owner's mirror session consistent without waiting for the notification
// round-trip.
type Service struct {
	store    store.Store
	uploader Uploader
	sessions *mirror.Manager
}

// Uploader is the slice of the storage layer the service needs.
type Uploader interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
}

// NewService creates a job service.
func NewService(st store.Store, uploader Uploader, sessions *mirror.Manager) *Service {
	return &Service{
		store:    st,
		uploader: uploader,
		sessions: sessions,
	}
}

// Create inserts a queued job for the owner and applies it to the owner's
// mirror immediately. The change notification's own insert for the same id
// reconciles as a no-op.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, sourceRef, displayName string) (*models.AnalysisJob, error) {
	job := &models.AnalysisJob{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		SourceRef:   sourceRef,
		DisplayName: displayName,
		Status:      models.JobStatusQueued,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.InsertJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	sess, err := s.sessions.Session(ctx, ownerID)
	if err != nil {
		// The job exists remotely; the mirror catches up on the next seed.
		slog.Warn("job created but session unavailable", "job_id", job.ID, "error", err)
		return job, nil
	}
	sess.Apply(models.JobChange{Kind: models.ChangeInsert, Job: *job})

	slog.Info("job created", "job_id", job.ID, "owner_id", ownerID, "source", sourceRef)
	return job, nil
}

// CreateFromURL creates a job whose source is a video URL rather than an
// uploaded object. The display name is derived from the URL.
func (s *Service) CreateFromURL(ctx context.Context, ownerID uuid.UUID, videoURL string) (*models.AnalysisJob, error) {
	return s.Create(ctx, ownerID, videoURL, DisplayNameForURL(videoURL))
}

// DisplayNameForURL labels a video URL for the job list. YouTube URLs get
// their video id; anything else falls back to a generic id under the same
// prefix.
func DisplayNameForURL(videoURL string) string {
	id := "youtube-video"
	if m := youtubeIDPattern.FindStringSubmatch(videoURL); m != nil {
		id = m[1]
	}
	return "YouTube: " + id
}

// UploadVideo stores a source video for the owner and returns the stored
// path. No job is created here; the caller submits the path separately.
func (s *Service) UploadVideo(ctx context.Context, ownerID uuid.UUID, filename string, body io.Reader) (string, error) {
	path := uploadPath(ownerID, filename, time.Now())

	if err := s.uploader.Upload(ctx, path, body, contentTypeFor(filename)); err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	slog.Info("video uploaded", "owner_id", ownerID, "path", path)
	return path, nil
}

// videoContentTypes covers the formats the analysis pipeline accepts.
var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

func contentTypeFor(filename string) string {
	if ct, ok := videoContentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// uploadPath namespaces stored videos per owner and keys them by upload
// time, keeping the original extension.
func uploadPath(ownerID uuid.UUID, filename string, now time.Time) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "mp4"
	}
	return fmt.Sprintf("%s/%d.%s", ownerID, now.UnixMilli(), ext)
}
