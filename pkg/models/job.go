package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of an analysis job. Transitions are driven
// entirely by the external vision worker; this service only mirrors them.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// StatusInfo carries per-status presentation metadata shared by the list and
// detail surfaces.
type StatusInfo struct {
	Label        string `json:"label"`
	Description  string `json:"description"`
	Terminal     bool   `json:"terminal"`
	ResultsReady bool   `json:"results_ready"`
}

var statusInfo = map[JobStatus]StatusInfo{
	JobStatusQueued: {
		Label:       "Queued",
		Description: "Waiting for a worker to pick up this job",
	},
	JobStatusProcessing: {
		Label:       "Processing",
		Description: "Video is being analyzed by YOLOv8 + ByteTrack",
	},
	JobStatusDone: {
		Label:        "Complete",
		Description:  "Analysis complete! View your results below",
		Terminal:     true,
		ResultsReady: true,
	},
	JobStatusFailed: {
		Label:       "Failed",
		Description: "Something went wrong during processing",
		Terminal:    true,
	},
}

// Info returns display metadata for the status. Unknown statuses (the mirror
// applies remote updates without validation) get a label equal to the raw
// value and no description.
func (s JobStatus) Info() StatusInfo {
	if info, ok := statusInfo[s]; ok {
		return info
	}
	return StatusInfo{Label: string(s)}
}

// Terminal reports whether no further transition is expected out of s.
func (s JobStatus) Terminal() bool { return s.Info().Terminal }

// AnalysisJob is one user-submitted video awaiting, undergoing, or having
// completed analysis. The remote database is authoritative; local copies are
// mirrors updated through change notifications.
type AnalysisJob struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	OwnerID     uuid.UUID `db:"owner_id"     json:"owner_id"`
	SourceRef   string    `db:"source_ref"   json:"source_ref"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Status      JobStatus `db:"status"       json:"status"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`

	// Set by the worker as the job progresses.
	StartedAt       *time.Time     `db:"started_at"       json:"started_at,omitempty"`
	FinishedAt      *time.Time     `db:"finished_at"      json:"finished_at,omitempty"`
	ResultsLocation *string        `db:"results_location" json:"results_location,omitempty"`
	ErrorMessage    *string        `db:"error_message"    json:"error_message,omitempty"`
	Summary         *ResultSummary `db:"summary"          json:"summary,omitempty"`
}

// ResultsReady reports whether result artifacts can be fetched for the job.
func (j *AnalysisJob) ResultsReady() bool {
	return j.Status == JobStatusDone && j.ResultsLocation != nil && *j.ResultsLocation != ""
}
