// Package dispatch is the widget runtime's single entry point. It resolves
// the mount target on the host document, ensures the requested embed is
// loaded and registered, prepares the rendering surface, and invokes the
// renderer, funneling every failure into the host's failure callback
// instead of letting it escape into host code.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	dErrors "proxyauth/pkg/domain-errors"

	"proxyauth/internal/staticdata"
	"proxyauth/internal/widget/callback"
	"proxyauth/internal/widget/hostdoc"
	"proxyauth/internal/widget/loader"
	"proxyauth/internal/widget/metrics"
	"proxyauth/internal/widget/models"
	"proxyauth/internal/widget/registry"
	"proxyauth/internal/widget/surface"
	"proxyauth/internal/widget/tracer"
)

// Runtime owns the shared registry and loader. It lives for the process
// lifetime; renderers and pending loads are shared across every mount and
// every call, since embeds are stateless functions of their render context.
type Runtime struct {
	registry *registry.Registry
	loader   *loader.Loader
	data     staticdata.Provider
	invoker  *callback.Invoker

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger injects a logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// WithMetrics injects runtime metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

// WithTracer injects a tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(rt *Runtime) { rt.tracer = t }
}

// New wires a runtime from its collaborators.
func New(reg *registry.Registry, ld *loader.Loader, data staticdata.Provider, inv *callback.Invoker, opts ...Option) *Runtime {
	rt := &Runtime{
		registry: reg,
		loader:   ld,
		data:     data,
		invoker:  inv,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Registry exposes the shared registry handle so hosts can pre-register
// custom renderers.
func (rt *Runtime) Registry() *registry.Registry { return rt.registry }

// Preload warms embed bundles ahead of first use.
func (rt *Runtime) Preload(ctx context.Context, types ...models.Type) error {
	return rt.loader.Preload(ctx, types...)
}

// InitVerification mounts the configured embed into the host document.
//
// The call waits for the document to become interactive (or ctx to end),
// then resolves the mount target, loads the embed if needed, and renders.
// Any failure is delivered to cfg.Failure through the guarded invoker and
// also returned, so programmatic callers can observe it directly. A nil
// document is the no-document environment and the call is a no-op.
func (rt *Runtime) InitVerification(ctx context.Context, doc *hostdoc.Document, cfg *models.Config) error {
	if doc == nil {
		rt.logger.DebugContext(ctx, "init called without a host document, skipping")
		return nil
	}
	if cfg == nil {
		cfg = &models.Config{}
	}

	select {
	case <-doc.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}

	embedType := cfg.Type
	if embedType == "" {
		embedType = models.DefaultType
	}

	ctx, span := rt.tracer.Start(ctx, "widget.initVerification", tracer.String("embed.type", embedType.String()))
	err := rt.mount(ctx, doc, cfg, embedType)
	span.End(err)

	if err != nil {
		rt.logger.ErrorContext(ctx, "init verification failed", "embed_type", embedType, "error", err)
		rt.invoker.Failure(cfg.Failure, err)
		return err
	}

	rt.metrics.IncRender(embedType.String())
	return nil
}

func (rt *Runtime) mount(ctx context.Context, doc *hostdoc.Document, cfg *models.Config, embedType models.Type) error {
	el, err := resolveTarget(doc, cfg)
	if err != nil {
		return err
	}
	root := el.AttachShadow()

	// Fresh snapshot per call; embeds never see stale data from an earlier mount.
	snap, err := rt.data.Snapshot(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch widget data")
	}

	if err := rt.loader.Load(ctx, embedType); err != nil {
		return err
	}

	fn, ok := rt.registry.Lookup(embedType)
	if !ok {
		// The bundle loaded but never self-registered under the requested key.
		return dErrors.New(dErrors.CodeRendererNotRegistered,
			fmt.Sprintf("renderer not registered for type: %s", embedType))
	}

	surf := surface.New(root, cfg.Variant)
	rc := &models.RenderContext{
		Surface:  surf,
		Data:     snap,
		Config:   cfg,
		Registry: rt.registry,
	}
	if err := fn(ctx, rc); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("render failed for type: %s", embedType))
	}
	return nil
}

// resolveTarget picks the mount element: explicit element, then selector,
// then referenceId, then containerId, then the well-known default id. A
// provided-but-missing reference falls through to the next candidate; the
// call fails only when nothing resolves.
func resolveTarget(doc *hostdoc.Document, cfg *models.Config) (*hostdoc.Element, error) {
	if cfg.Target != nil {
		return cfg.Target, nil
	}
	if cfg.Selector != "" {
		if el, ok := doc.Query(cfg.Selector); ok {
			return el, nil
		}
	}
	for _, id := range []string{cfg.ReferenceID, cfg.ContainerID, models.DefaultContainerID} {
		if id == "" {
			continue
		}
		if el, ok := doc.ElementByID(id); ok {
			return el, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeMountTargetNotFound, "no mount element found on host document")
}
