package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ruckwatch/ruckwatch/internal/cache"
	"github.com/ruckwatch/ruckwatch/internal/results"
	"github.com/ruckwatch/ruckwatch/internal/store"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// watchBuffer is the per-watcher channel depth. A watcher that falls this
// far behind loses changes; its next list read restores consistency.
const watchBuffer = 16

// Session is one owner's live view: the job mirror plus the results
// selection guard. A session exists from first access until Reset.
type Session struct {
	OwnerID uuid.UUID
	View    results.View

	mirror *Mirror

	mu       sync.Mutex
	watchers map[uint64]chan models.JobChange
	nextID   uint64
}

// Jobs returns the owner's jobs, newest-created first.
func (s *Session) Jobs() []*models.AnalysisJob {
	return s.mirror.List()
}

// Job returns one job by id, if the mirror knows it.
func (s *Session) Job(id uuid.UUID) (*models.AnalysisJob, bool) {
	return s.mirror.Get(id)
}

// Apply reconciles a change into the mirror and, if it mutated the set,
// fans it out to watchers. Changes are applied in arrival order per job id.
func (s *Session) Apply(change models.JobChange) {
	if !s.mirror.Apply(change) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- change:
		default:
			// Slow watcher: drop rather than stall reconciliation.
		}
	}
}

// Watch registers a change watcher. The returned cancel func must be called
// to release it.
func (s *Session) Watch() (<-chan models.JobChange, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan models.JobChange, watchBuffer)
	s.watchers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Watchers reports the number of registered watchers.
func (s *Session) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}

func (s *Session) closeWatchers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
}

// Manager owns the per-owner sessions and routes the change stream into
// them. Changes for owners without an active session are dropped from the
// mirrors (the session seeds itself from the store when it is next created)
// but still update the job-status cache when one is attached.
type Manager struct {
	store       store.Store
	statusCache cache.Cache
	statusTTL   time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// ManagerOption configures optional Manager collaborators.
type ManagerOption func(*Manager)

// WithStatusCache keeps the given cache in step with the change stream:
// inserts and updates record the job's latest status, deletes evict it.
func WithStatusCache(c cache.Cache, ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.statusCache = c
		m.statusTTL = ttl
	}
}

// NewManager creates a Manager backed by the given store.
func NewManager(st store.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    st,
		sessions: make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns the owner's session, creating and seeding it on first
// access. The session is registered before seeding so notifications arriving
// mid-seed are not lost; Seed keeps the notification copy for any overlap.
func (m *Manager) Session(ctx context.Context, ownerID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[ownerID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	s := &Session{
		OwnerID:  ownerID,
		mirror:   NewMirror(),
		watchers: make(map[uint64]chan models.JobChange),
	}
	m.sessions[ownerID] = s
	m.mu.Unlock()

	jobs, err := m.store.ListJobs(ctx, ownerID)
	if err != nil {
		m.Reset(ownerID)
		return nil, fmt.Errorf("seed session: %w", err)
	}
	s.mirror.Seed(jobs)
	return s, nil
}

// Reset tears down the owner's session. The next access rebuilds it from
// the store (the user-switch path: clear, then resubscribe).
func (m *Manager) Reset(ownerID uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[ownerID]
	delete(m.sessions, ownerID)
	m.mu.Unlock()

	if ok {
		s.closeWatchers()
	}
}

// Route delivers one change to the owning session, if active, and records
// the job's status in the attached cache.
func (m *Manager) Route(change models.JobChange) {
	m.mu.Lock()
	s, ok := m.sessions[change.Job.OwnerID]
	m.mu.Unlock()

	if ok {
		s.Apply(change)
	}
	m.recordStatus(change)
}

func (m *Manager) recordStatus(change models.JobChange) {
	if m.statusCache == nil {
		return
	}
	ctx := context.Background()
	var err error
	switch change.Kind {
	case models.ChangeDelete:
		err = m.statusCache.DeleteJobStatus(ctx, change.Job.OwnerID, change.Job.ID)
	case models.ChangeInsert, models.ChangeUpdate:
		err = m.statusCache.SetJobStatus(ctx, change.Job.OwnerID, change.Job.ID,
			change.Job.Status, m.statusTTL)
	}
	if err != nil {
		// A cold status cache costs a database read on the next poll.
		slog.Warn("job status cache write failed", "job_id", change.Job.ID, "error", err)
	}
}

// Run consumes the listener's change stream until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, changes <-chan models.JobChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			slog.Debug("routing job change",
				"kind", change.Kind, "job_id", change.Job.ID, "status", change.Job.Status)
			m.Route(change)
		}
	}
}
