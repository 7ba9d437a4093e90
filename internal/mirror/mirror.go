// Package mirror maintains the local, owner-scoped view of the analysis_jobs
// table. The remote database is the source of truth; a Mirror is a passive
// replica updated by reconciling change notifications, never by validating
// or initiating transitions itself.
package mirror

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// Mirror is an ordered, keyed set of one owner's jobs, newest-created first.
// Each reconcile is atomic under the mutex: readers never observe a
// half-applied notification.
type Mirror struct {
	mu   sync.Mutex
	jobs []*models.AnalysisJob
}

// NewMirror returns an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{}
}

// Seed merges the authoritative list into the mirror, keeping any job that
// arrived through a notification while the list was being fetched (the
// notification copy is newer). The result is ordered newest-created first.
func (m *Mirror) Seed(jobs []*models.AnalysisJob) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, job := range jobs {
		if m.indexOf(job.ID) == -1 {
			j := *job
			m.jobs = append(m.jobs, &j)
		}
	}
	sort.SliceStable(m.jobs, func(i, j int) bool {
		return m.jobs[i].CreatedAt.After(m.jobs[j].CreatedAt)
	})
}

// Apply reconciles one change notification and reports whether the set
// mutated. Inserts are idempotent by id; updates replace in place preserving
// position; updates and deletes for unknown ids are ignored.
func (m *Mirror) Apply(change models.JobChange) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(change.Job.ID)
	switch change.Kind {
	case models.ChangeInsert:
		if idx != -1 {
			return false
		}
		job := change.Job
		m.jobs = append([]*models.AnalysisJob{&job}, m.jobs...)
		return true
	case models.ChangeUpdate:
		if idx == -1 {
			return false
		}
		job := change.Job
		m.jobs[idx] = &job
		return true
	case models.ChangeDelete:
		if idx == -1 {
			return false
		}
		m.jobs = append(m.jobs[:idx], m.jobs[idx+1:]...)
		return true
	default:
		return false
	}
}

// List returns a snapshot of the jobs in mirror order.
func (m *Mirror) List() []*models.AnalysisJob {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.AnalysisJob, len(m.jobs))
	for i, job := range m.jobs {
		j := *job
		out[i] = &j
	}
	return out
}

// Get returns the job with the given id, if present.
func (m *Mirror) Get(id uuid.UUID) (*models.AnalysisJob, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx == -1 {
		return nil, false
	}
	j := *m.jobs[idx]
	return &j, true
}

// Len returns the number of jobs in the mirror.
func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// indexOf must be called with the mutex held.
func (m *Mirror) indexOf(id uuid.UUID) int {
	for i, job := range m.jobs {
		if job.ID == id {
			return i
		}
	}
	return -1
}
