// Package registry holds the shared embed type to renderer mapping.
package registry

import (
	"sync"

	"proxyauth/internal/widget/models"
)

// Registry maps embed types to render functions. Registration is
// last-write-wins: bundles and host code may replace a renderer at any time,
// and it is the loader, not the registry, that prevents duplicate loads.
type Registry struct {
	mu        sync.RWMutex
	renderers map[models.Type]models.RenderFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{renderers: make(map[models.Type]models.RenderFunc)}
}

// Register stores fn under t, unconditionally overwriting any prior entry.
func (r *Registry) Register(t models.Type, fn models.RenderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[t] = fn
}

// Lookup returns the renderer for t. Absence means "not yet loaded"; callers
// go through the loader rather than treating it as an error.
func (r *Registry) Lookup(t models.Type) (models.RenderFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.renderers[t]
	return fn, ok
}

// Types lists the currently registered embed types.
func (r *Registry) Types() []models.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]models.Type, 0, len(r.renderers))
	for t := range r.renderers {
		types = append(types, t)
	}
	return types
}

var _ models.RegistryHandle = (*Registry)(nil)
