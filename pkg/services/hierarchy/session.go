package hierarchy

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = fmt.Errorf("expansion session not found")

// SessionManager owns the expansion state of live dashboard sessions.
// Each browser session holds exactly one Expansion, addressed by an
// opaque ID; state is kept in memory only and is never shared between
// sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]Expansion
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]Expansion)}
}

// Create registers a new session with nothing expanded and returns its ID.
func (m *SessionManager) Create() string {
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = NewExpansion()
	m.mu.Unlock()
	return id
}

// Get returns the current expansion set of a session.
func (m *SessionManager) Get(id string) (Expansion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Toggle flips one region in a session and returns the resulting set.
func (m *SessionManager) Toggle(id, region string) (Expansion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	next := e.Toggle(region)
	m.sessions[id] = next
	return next, nil
}

// Drop removes a session. Dropping an unknown ID is a no-op.
func (m *SessionManager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
