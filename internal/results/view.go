package results

import (
	"sync"

	"github.com/google/uuid"
)

// View guards against the stale-selection race: a results load started for
// one selected job must not overwrite the view after the user has moved to
// another. Select hands out a generation token; Deliver discards any result
// whose token no longer matches the current selection.
type View struct {
	mu      sync.Mutex
	gen     uint64
	jobID   uuid.UUID
	current *ResultSet
}

// Select makes jobID the current selection, clears any previous results, and
// returns the token a subsequent Deliver must present.
func (v *View) Select(jobID uuid.UUID) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.jobID = jobID
	v.current = nil
	return v.gen
}

// Deliver stores rs if token still identifies the current selection and
// reports whether it was accepted. A late delivery for a superseded
// selection is a harmless no-op.
func (v *View) Deliver(token uint64, rs *ResultSet) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.gen {
		return false
	}
	v.current = rs
	return true
}

// Current returns the selected job and its delivered results, if any.
func (v *View) Current() (uuid.UUID, *ResultSet, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.jobID, v.current, v.current != nil
}
