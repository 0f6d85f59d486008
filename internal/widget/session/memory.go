package session

import (
	"context"
	"sync"

	"proxyauth/internal/sentinel"
)

// ErrNotFound is returned when a session is not found.
var ErrNotFound = sentinel.ErrNotFound

// InMemory stores live sessions in memory. Sessions are bound to this
// process anyway, since their documents and surfaces are in-process objects, so
// no persistent variant exists.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemory creates an in-memory session store.
func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[string]*Session)}
}

// Save stores the session, overwriting any entry with the same id.
func (s *InMemory) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// FindByID retrieves a session by id.
func (s *InMemory) FindByID(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, ErrNotFound
}

// Delete removes a session. Deleting an absent session returns ErrNotFound.
func (s *InMemory) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// Count returns the number of live sessions.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}
