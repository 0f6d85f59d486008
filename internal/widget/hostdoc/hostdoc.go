// Package hostdoc models the host page the widget runtime mounts into.
// It substitutes for a browser document: elements addressable by id, a
// readiness gate for early initialization calls, and shadow-root-equivalent
// isolation boundaries whose content can be fully replaced without leaking
// stale action bindings.
package hostdoc

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"proxyauth/internal/sentinel"
)

// Document is one host page. Elements are addressable by id; lookups before
// the document is ready are legal, but the runtime defers mounting until
// SetReady has been called.
type Document struct {
	mu        sync.RWMutex
	elements  map[string]*Element
	ready     chan struct{}
	readyOnce sync.Once
}

// NewDocument creates a document in the loading state.
func NewDocument() *Document {
	return &Document{
		elements: make(map[string]*Element),
		ready:    make(chan struct{}),
	}
}

// NewReadyDocument creates a document that is already interactive.
func NewReadyDocument() *Document {
	d := NewDocument()
	d.SetReady()
	return d
}

// SetReady marks the document interactive. Safe to call more than once.
func (d *Document) SetReady() {
	d.readyOnce.Do(func() { close(d.ready) })
}

// Ready returns a channel closed once the document is interactive.
func (d *Document) Ready() <-chan struct{} {
	return d.ready
}

// IsReady reports whether the document has become interactive.
func (d *Document) IsReady() bool {
	select {
	case <-d.ready:
		return true
	default:
		return false
	}
}

// CreateElement registers an element under the given id, returning the
// existing element if the id is already taken.
func (d *Document) CreateElement(elemID string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[elemID]; ok {
		return el
	}
	el := &Element{id: elemID}
	d.elements[elemID] = el
	return el
}

// ElementByID looks up an element by id.
func (d *Document) ElementByID(elemID string) (*Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	el, ok := d.elements[elemID]
	return el, ok
}

// Query resolves a selector against the document. Only id selectors
// ("#some-id") are supported; that is the only form host configurations use.
func (d *Document) Query(selector string) (*Element, bool) {
	if !strings.HasPrefix(selector, "#") {
		return nil, false
	}
	return d.ElementByID(strings.TrimPrefix(selector, "#"))
}

// Element is a mountable host container.
type Element struct {
	id     string
	mu     sync.Mutex
	shadow *Root
}

// ID returns the element id.
func (e *Element) ID() string { return e.id }

// AttachShadow returns the element's isolation root, creating it on first
// call. Repeated calls return the same root so re-initialization reuses the
// boundary instead of stacking new ones.
func (e *Element) AttachShadow() *Root {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shadow == nil {
		e.shadow = &Root{}
	}
	return e.shadow
}

// Shadow returns the attached root, or nil if none was attached yet.
func (e *Element) Shadow() *Root {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shadow
}

// Root is the shadow-root-equivalent isolation boundary. Styles injected
// here do not escape to the host page, and Clear drops children entirely so
// no bindings from a previous mount survive.
type Root struct {
	mu       sync.RWMutex
	styles   []string
	children []*Container
}

// Clear removes all styles and children.
func (r *Root) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles = nil
	r.children = nil
}

// AddStyle injects a stylesheet scoped to this root.
func (r *Root) AddStyle(css string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles = append(r.styles, css)
}

// Append attaches a container as a child of this root.
func (r *Root) Append(c *Container) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.children = append(r.children, c)
}

// Children returns the current child containers.
func (r *Root) Children() []*Container {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Container, len(r.children))
	copy(out, r.children)
	return out
}

// HTML serializes the root: scoped styles followed by child markup.
func (r *Root) HTML() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var b strings.Builder
	for _, css := range r.styles {
		b.WriteString("<style>")
		b.WriteString(css)
		b.WriteString("</style>")
	}
	for _, c := range r.children {
		b.WriteString(c.HTML())
	}
	return b.String()
}

// ActionFunc handles a user interaction bound on a container.
type ActionFunc func(ctx context.Context, params map[string]any) error

// Container is the content element a renderer populates. Renderers own its
// markup and bind named actions for the interactions their UI exposes.
type Container struct {
	class string

	mu      sync.RWMutex
	content string
	actions map[string]ActionFunc
}

// NewContainer creates a container with the given class attribute.
func NewContainer(class string) *Container {
	return &Container{class: class, actions: make(map[string]ActionFunc)}
}

// Class returns the container's class attribute.
func (c *Container) Class() string { return c.class }

// SetHTML replaces the container's markup.
func (c *Container) SetHTML(markup string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = markup
}

// Content returns the container's inner markup.
func (c *Container) Content() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.content
}

// HTML serializes the container as a div with its class attribute.
func (c *Container) HTML() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf(`<div class="%s">%s</div>`, html.EscapeString(c.class), c.content)
}

// BindAction registers a handler for a named user interaction, replacing any
// previous handler under the same name.
func (c *Container) BindAction(name string, fn ActionFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[name] = fn
}

// Actions lists the bound action names.
func (c *Container) Actions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.actions))
	for name := range c.actions {
		names = append(names, name)
	}
	return names
}

// Trigger runs the handler bound under name. Returns sentinel.ErrNotFound
// if nothing is bound.
func (c *Container) Trigger(ctx context.Context, name string, params map[string]any) error {
	c.mu.RLock()
	fn, ok := c.actions[name]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("action %q not bound: %w", name, sentinel.ErrNotFound)
	}
	return fn(ctx, params)
}
