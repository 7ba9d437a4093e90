package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface for the authoritative remote database.
// All reads and writes of jobs are scoped to an owner.
type Store interface {
	Ping(ctx context.Context) error

	GetDefaultOwner(ctx context.Context) (*models.Owner, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error

	InsertJob(ctx context.Context, job *models.AnalysisJob) error
	ListJobs(ctx context.Context, ownerID uuid.UUID) ([]*models.AnalysisJob, error)
	GetJob(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.AnalysisJob, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status models.JobStatus, opts ...JobUpdateOption) error
	DeleteJob(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

type jobUpdateParams struct {
	StartedAt       *time.Time
	FinishedAt      *time.Time
	ResultsLocation *string
	ErrorMessage    *string
	Summary         *models.ResultSummary
}

// JobUpdateOption sets an optional field alongside a status transition.
// These are worker-side writes; the serving path never transitions a job.
type JobUpdateOption func(*jobUpdateParams)

func WithStartedAt(t time.Time) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.StartedAt = &t
	}
}

func WithFinishedAt(t time.Time) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.FinishedAt = &t
	}
}

func WithResultsLocation(path string) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.ResultsLocation = &path
	}
}

func WithErrorMessage(msg string) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.ErrorMessage = &msg
	}
}

func WithSummary(s *models.ResultSummary) JobUpdateOption {
	return func(p *jobUpdateParams) {
		p.Summary = s
	}
}
