// Package session tracks live widget sessions for the HTTP transport. A
// session owns one host document, the mounted surface, and the success
// payloads the embed has emitted so far.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"proxyauth/internal/widget/hostdoc"
	"proxyauth/internal/widget/models"
)

// Session is one mounted widget on behalf of a host page.
type Session struct {
	ID        string
	Type      models.Type
	Doc       *hostdoc.Document
	Element   *hostdoc.Element
	Surface   *hostdoc.Container
	CreatedAt time.Time

	mu       sync.Mutex
	payloads []models.Payload
}

// New creates a session with a fresh id.
func New(embedType models.Type, doc *hostdoc.Document, el *hostdoc.Element) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Type:      embedType,
		Doc:       doc,
		Element:   el,
		CreatedAt: time.Now().UTC(),
	}
}

// Record appends a success payload. Wired as the session's success callback.
func (s *Session) Record(p models.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, p)
}

// Payloads returns a copy of everything emitted so far.
func (s *Session) Payloads() []models.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Payload, len(s.payloads))
	copy(out, s.payloads)
	return out
}

// PayloadsSince returns payloads emitted after index n.
func (s *Session) PayloadsSince(n int) []models.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= len(s.payloads) {
		return nil
	}
	out := make([]models.Payload, len(s.payloads)-n)
	copy(out, s.payloads[n:])
	return out
}

// PayloadCount returns how many payloads were emitted so far.
func (s *Session) PayloadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}
