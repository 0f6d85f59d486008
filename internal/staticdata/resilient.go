package staticdata

import (
	"context"
	"log/slog"

	"proxyauth/pkg/platform/circuit"
)

// Resilient wraps a Provider with circuit breaker protection. When the
// circuit opens after consecutive upstream failures, snapshots come from the
// fallback provider until the upstream recovers, so embeds keep rendering
// while the data endpoint is down.
type Resilient struct {
	primary  Provider
	fallback Provider
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// NewResilient creates a resilient provider. fallback is consulted whenever
// the circuit is open or a primary fetch fails.
func NewResilient(primary, fallback Provider, logger *slog.Logger, opts ...circuit.Option) *Resilient {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resilient{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("staticdata", opts...),
		logger:   logger,
	}
}

// Snapshot fetches from the primary provider, serving the fallback on any
// failure. Repeated failures open the circuit, which quiets the per-request
// warnings until the upstream recovers.
func (r *Resilient) Snapshot(ctx context.Context) (*Snapshot, error) {
	// An open circuit still probes the primary so it can close again; a
	// fresh snapshot from a recovered upstream is always preferred.
	snap, err := r.primary.Snapshot(ctx)
	if err == nil {
		if r.breaker.RecordSuccess() == circuit.TransitionClosed {
			r.logger.InfoContext(ctx, "staticdata circuit closed, upstream recovered")
		}
		return snap, nil
	}

	if r.breaker.RecordFailure() == circuit.TransitionOpened {
		r.logger.WarnContext(ctx, "staticdata circuit opened, serving fallback data", "error", err)
	} else if !r.breaker.IsOpen() {
		r.logger.WarnContext(ctx, "staticdata fetch failed, serving fallback data", "error", err)
	}
	return r.fallback.Snapshot(ctx)
}

var _ Provider = (*Resilient)(nil)
