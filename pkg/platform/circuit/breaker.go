// Package circuit implements a two-state (closed/open) circuit breaker for
// fail-safe reads with a fallback path.
package circuit

import "sync"

// State of the breaker. Closed means the primary path is in use; Open means
// callers should serve from their fallback.
type State int

const (
	StateClosed State = iota
	StateOpen
)

// Transition reports whether a Record call moved the breaker between states.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionOpened
	TransitionClosed
)

// Breaker counts consecutive outcomes. FailureThreshold consecutive failures
// open it; SuccessThreshold consecutive successes while open close it again.
// Safe for concurrent use.
type Breaker struct {
	mu         sync.Mutex
	state      State
	name       string
	failures   int
	successes  int
	openAfter  int
	closeAfter int
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit.
// Default 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.openAfter = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close an open
// circuit. Default 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.closeAfter = n
		}
	}
}

// New creates a closed breaker. The name labels it in logs and metrics.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:       name,
		state:      StateClosed,
		openAfter:  5,
		closeAfter: 3,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name labels the breaker for logging and metrics.
func (b *Breaker) Name() string { return b.name }

// IsOpen reports whether the circuit is currently open.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == StateOpen
}

// RecordFailure notes a failed primary operation and returns
// TransitionOpened on the call that trips the circuit.
func (b *Breaker) RecordFailure() Transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successes = 0
	if b.state == StateOpen {
		return TransitionNone
	}

	b.failures++
	if b.failures >= b.openAfter {
		b.state = StateOpen
		return TransitionOpened
	}
	return TransitionNone
}

// RecordSuccess notes a successful primary operation and returns
// TransitionClosed on the call that restores the circuit.
func (b *Breaker) RecordSuccess() Transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		b.successes++
		if b.successes >= b.closeAfter {
			b.state = StateClosed
			b.failures = 0
			b.successes = 0
			return TransitionClosed
		}
		return TransitionNone
	}

	b.failures = 0
	return TransitionNone
}

// Reset forces the breaker closed and clears all counts.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
}
