// Package callback guards invocation of host-supplied callbacks. A panic
// inside host code is a diagnostic event, never a control-flow event: it is
// recovered, logged, and counted, and the runtime's own state stays intact.
package callback

import (
	"log/slog"
	"runtime/debug"

	"proxyauth/internal/widget/metrics"
	"proxyauth/internal/widget/models"
)

// Invoker calls host success/failure callbacks inside a guarded scope.
type Invoker struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates an invoker. Logger may be nil; metrics may be nil.
func New(logger *slog.Logger, m *metrics.Metrics) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{logger: logger, metrics: m}
}

// Success calls fn with the payload. A nil fn is a no-op.
func (i *Invoker) Success(fn func(models.Payload), p models.Payload) {
	if fn == nil {
		return
	}
	defer i.recover("success")
	fn(p)
}

// Failure calls fn with the error. A nil fn is a no-op.
func (i *Invoker) Failure(fn func(error), err error) {
	if fn == nil {
		return
	}
	defer i.recover("failure")
	fn(err)
}

func (i *Invoker) recover(kind string) {
	if r := recover(); r != nil {
		i.metrics.IncCallbackPanic()
		i.logger.Error("host callback panicked",
			"callback", kind,
			"panic", r,
			"stack", string(debug.Stack()),
		)
	}
}
