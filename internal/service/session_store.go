package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/triagem/triage-console/pkg/errorutil"
)

// SessionStore keeps the live triage sessions in memory.
type SessionStore struct {
	deps     SessionDependencies
	mu       sync.RWMutex
	sessions map[string]*TriageSession
}

// NewSessionStore creates an empty store whose sessions share deps.
func NewSessionStore(deps SessionDependencies) *SessionStore {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &SessionStore{deps: deps, sessions: make(map[string]*TriageSession)}
}

// Create starts a new IDLE session.
func (st *SessionStore) Create() *TriageSession {
	s := NewTriageSession(uuid.NewString(), st.deps)
	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.mu.Unlock()
	return s
}

// Get looks a session up by id.
func (st *SessionStore) Get(id string) (*TriageSession, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFound("session", map[string]any{"session_id": id})
	}
	return s, nil
}

// Delete discards a session, cancelling any in-flight dispatch.
func (st *SessionStore) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return apperrors.NewNotFound("session", map[string]any{"session_id": id})
	}
	s.Cancel()
	return nil
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions untouched for longer than maxIdle. Sessions with a
// dispatch in flight are kept. It returns the number removed.
func (st *SessionStore) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := st.deps.Clock().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		updated, submitting := s.idleSince()
		if submitting || !updated.Before(cutoff) {
			continue
		}
		delete(st.sessions, id)
		removed++
	}
	return removed
}
