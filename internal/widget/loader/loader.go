// Package loader guarantees that after a successful Load the registry holds
// a renderer for the requested embed type, fetching each type's bundle at
// most once per runtime lifetime.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	dErrors "proxyauth/pkg/domain-errors"

	"proxyauth/internal/widget/bundle"
	"proxyauth/internal/widget/callback"
	"proxyauth/internal/widget/metrics"
	"proxyauth/internal/widget/models"
	"proxyauth/internal/widget/tracer"
)

// DefaultLocations maps the built-in embed types to their bundle locations
// relative to the asset origin.
func DefaultLocations() map[models.Type]string {
	return map[models.Type]string{
		models.TypeUserDetails:      "embeds/user-details.json",
		models.TypeCompanyDirectory: "embeds/company-directory.json",
		models.TypeMemberSummary:    "embeds/member-summary.json",
		models.TypeUserManagement:   "embeds/user-management.json",
	}
}

// Installer turns fetched bundle bytes into a registered renderer.
type Installer func(raw []byte, reg models.RegistryHandle) error

// Loader memoizes bundle loads per embed type. The pending map lives for
// the loader's lifetime; a failed load's error is retained and returned to
// every later caller for that type, mirroring the load-once contract on the
// success path.
type Loader struct {
	registry  models.RegistryHandle
	source    Source
	install   Installer
	base      *url.URL
	locations map[models.Type]string

	mu      sync.Mutex
	pending map[models.Type]*pendingLoad

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

type pendingLoad struct {
	done chan struct{}
	err  error
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger injects a logger.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// WithMetrics injects runtime metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(ld *Loader) { ld.metrics = m }
}

// WithTracer injects a tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(ld *Loader) { ld.tracer = t }
}

// WithLocations replaces the bundle location table.
func WithLocations(locations map[models.Type]string) Option {
	return func(ld *Loader) { ld.locations = locations }
}

// WithInstaller replaces the bundle installer. Tests use this to observe or
// sabotage installation.
func WithInstaller(install Installer) Option {
	return func(ld *Loader) { ld.install = install }
}

// New creates a loader fetching bundles from baseURL. Bundle locations are
// resolved relative to baseURL so deployments behind a path prefix keep
// working; a root-relative scheme would break them.
func New(reg models.RegistryHandle, source Source, baseURL string, inv *callback.Invoker, opts ...Option) (*Loader, error) {
	base, err := ResolveBase(baseURL)
	if err != nil {
		return nil, err
	}
	ld := &Loader{
		registry:  reg,
		source:    source,
		base:      base,
		locations: DefaultLocations(),
		pending:   make(map[models.Type]*pendingLoad),
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
	}
	ld.install = func(raw []byte, r models.RegistryHandle) error {
		_, err := bundle.Install(raw, r, inv)
		return err
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld, nil
}

// ResolveBase normalizes the asset origin URL. A trailing slash is enforced
// so relative bundle locations resolve under the origin's path prefix
// instead of replacing it.
func ResolveBase(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("asset base URL is required")
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse asset base URL: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("asset base URL must be absolute: %q", raw)
	}
	return base, nil
}

// Load ensures a renderer for t is registered, fetching its bundle at most
// once. Concurrent calls for the same type share one fetch; the caller's
// ctx only bounds the wait, never the shared fetch itself.
func (ld *Loader) Load(ctx context.Context, t models.Type) error {
	// Host pages may pre-register renderers directly; presence short-circuits
	// the network entirely.
	if _, ok := ld.registry.Lookup(t); ok {
		ld.metrics.IncEmbedLoad(t.String(), "registered")
		return nil
	}

	ld.mu.Lock()
	p, ok := ld.pending[t]
	if !ok {
		loc, known := ld.locations[t]
		if !known {
			ld.mu.Unlock()
			ld.metrics.IncEmbedLoad(t.String(), "unknown")
			return dErrors.New(dErrors.CodeUnknownEmbedType, fmt.Sprintf("unknown embed type: %s", t))
		}
		p = &pendingLoad{done: make(chan struct{})}
		ld.pending[t] = p
		// The fetch outlives any single caller; detach it from the caller's
		// cancellation while keeping its values for tracing.
		go ld.fetch(context.WithoutCancel(ctx), p, t, loc)
	}
	ld.mu.Unlock()

	select {
	case <-p.done:
		if p.err != nil {
			ld.metrics.IncEmbedLoad(t.String(), "failed")
		} else {
			ld.metrics.IncEmbedLoad(t.String(), "loaded")
		}
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ld *Loader) fetch(ctx context.Context, p *pendingLoad, t models.Type, loc string) {
	defer close(p.done)
	start := time.Now()

	ctx, span := ld.tracer.Start(ctx, "widget.loadEmbed", tracer.String("embed.type", t.String()))
	var err error
	defer func() { span.End(err) }()

	ref, parseErr := url.Parse(loc)
	if parseErr != nil {
		err = dErrors.Wrap(parseErr, dErrors.CodeEmbedLoadFailed, fmt.Sprintf("invalid bundle location for %s", t))
		p.err = err
		return
	}
	target := ld.base.ResolveReference(ref).String()

	raw, fetchErr := ld.source.Fetch(ctx, target)
	if fetchErr != nil {
		ld.metrics.IncBundleFetch(t.String(), "error")
		ld.logger.ErrorContext(ctx, "bundle fetch failed", "embed_type", t, "url", target, "error", fetchErr)
		err = dErrors.Wrap(fetchErr, dErrors.CodeEmbedLoadFailed, fmt.Sprintf("failed to load embed %s", t))
		p.err = err
		return
	}
	ld.metrics.IncBundleFetch(t.String(), "ok")

	if installErr := ld.install(raw, ld.registry); installErr != nil {
		ld.logger.ErrorContext(ctx, "bundle install failed", "embed_type", t, "error", installErr)
		err = dErrors.Wrap(installErr, dErrors.CodeEmbedLoadFailed, fmt.Sprintf("failed to install embed %s", t))
		p.err = err
		return
	}

	ld.metrics.ObserveLoadLatency(time.Since(start).Seconds())
	ld.logger.InfoContext(ctx, "embed bundle loaded",
		"embed_type", t,
		"url", target,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Preload warms the loader for the given types concurrently. The first
// failure is returned, but every requested load still runs to completion
// and is memoized either way.
func (ld *Loader) Preload(ctx context.Context, types ...models.Type) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range types {
		g.Go(func() error {
			return ld.Load(ctx, t)
		})
	}
	return g.Wait()
}

// Known reports whether a bundle location is configured for t.
func (ld *Loader) Known(t models.Type) bool {
	_, ok := ld.locations[t]
	return ok
}
