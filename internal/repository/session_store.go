package repository

import (
	"fmt"
	"sync"
	"time"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/util"
)

// SessionStore owns the lifetime of all game sessions. It holds no
// game logic; engines mutate sessions under the per-session lock after
// fetching them here. Implementations may be backed by memory (this
// package) or anything else with the same semantics.
type SessionStore interface {
	// Create inserts a fully initialized session. It fails only on id
	// collision, which with freshly minted ids should never happen.
	Create(s model.Session) error

	// Get returns the session or util.ErrSessionNotFound.
	Get(id string) (model.Session, error)

	// Delete reports whether the session existed and was removed.
	Delete(id string) bool

	// Sweep removes sessions older than maxAge and returns how many
	// were dropped. It holds the store lock exclusively for its whole
	// duration.
	Sweep(maxAge time.Duration) int

	// Len reports the number of live sessions.
	Len() int
}

// MemorySessionStore is a mutex-guarded map. Reads run concurrently;
// Create, Delete and Sweep take the write lock.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]model.Session)}
}

func (m *MemorySessionStore) Create(s model.Session) error {
	id := s.Base().ID
	if id == "" {
		return fmt.Errorf("session has no id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		return fmt.Errorf("session id collision: %s", id)
	}
	m.sessions[id] = s
	return nil
}

func (m *MemorySessionStore) Get(id string) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, util.ErrSessionNotFound
}

func (m *MemorySessionStore) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *MemorySessionStore) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.Base().CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
