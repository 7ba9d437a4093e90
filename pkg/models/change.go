package models

// ChangeKind identifies a job change notification from the remote database.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// JobChange is a single notification from the analysis_jobs change stream.
// Notifications for the same job id arrive in commit order; no ordering is
// guaranteed across different jobs.
type JobChange struct {
	Kind ChangeKind  `json:"kind"`
	Job  AnalysisJob `json:"job"`
}
