package httpserver

import (
	"sync"

	"travel_planner/internal/domain"
)

// SessionRegistry maps session ids to their conversational memory. Each
// session is single-owner; the registry lock only guards the map itself.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*domain.OrchestrationSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: map[string]*domain.OrchestrationSession{}}
}

// Get returns the session for id, creating it on first use.
func (r *SessionRegistry) Get(id string) *domain.OrchestrationSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = domain.NewSession()
		r.sessions[id] = s
	}
	return s
}

// Reset clears the session's memory, leaving it ready for a fresh
// conversation. Unknown ids are a no-op.
func (r *SessionRegistry) Reset(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.Reset()
	}
}

// Drop destroys the session entirely (logout).
func (r *SessionRegistry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
