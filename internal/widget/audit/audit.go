// Package audit publishes widget action events so operators can trace what
// hosts trigger through embedded widgets.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"proxyauth/internal/widget/models"
)

// Event records one completed widget action.
type Event struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	EmbedType models.Type    `json:"embed_type"`
	Action    string         `json:"action"`
	Data      map[string]any `json:"data,omitempty"`
	Occurred  time.Time      `json:"occurred_at"`
}

// NewEvent builds an event with a fresh id and timestamp.
func NewEvent(sessionID string, embedType models.Type, action string, data map[string]any) *Event {
	return &Event{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		EmbedType: embedType,
		Action:    action,
		Data:      data,
		Occurred:  time.Now().UTC(),
	}
}

// Publisher emits audit events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}

// Memory collects events in memory. Used in tests and as the default when
// no broker is configured.
type Memory struct {
	mu     sync.Mutex
	events []*Event
}

// NewMemory creates an in-memory publisher.
func NewMemory() *Memory {
	return &Memory{}
}

// Publish appends the event.
func (m *Memory) Publish(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Events returns a copy of everything published so far.
func (m *Memory) Events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

var (
	_ Publisher = (*Memory)(nil)
	_ Publisher = (*Kafka)(nil)
)
