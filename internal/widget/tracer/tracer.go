// Package tracer is the thin tracing seam for the widget runtime. The
// loader and dispatcher trace through this interface so they never import
// otel directly.
package tracer

import "context"

// Span is one traced operation. End records err when non-nil and completes
// the span.
type Span interface {
	End(err error)
}

// Tracer starts spans around runtime operations.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute annotates a span. Values may be string, bool, int, int64, or
// float64; anything else is dropped by the backend adapter.
type Attribute struct {
	Key   string
	Value any
}

// String builds a string attribute.
func String(key, value string) Attribute { return Attribute{Key: key, Value: value} }

// Int builds an int attribute.
func Int(key string, value int) Attribute { return Attribute{Key: key, Value: value} }

// NewNoop returns the tracer components default to when none is injected.
func NewNoop() Tracer { return noop{} }

type noop struct{}

func (noop) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}
