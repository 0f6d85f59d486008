// Package models holds the shared types of the widget runtime: embed type
// keys, the host-supplied configuration, callback payloads, and the render
// contract between the dispatcher and embed renderers.
package models

import (
	"context"

	"proxyauth/internal/staticdata"
	"proxyauth/internal/widget/hostdoc"
)

// Type identifies which embed to mount. The set is open: bundles and host
// pre-registration can add types the runtime has never seen.
type Type string

const (
	TypeUserDetails      Type = "user-details"
	TypeCompanyDirectory Type = "company-directory"
	TypeMemberSummary    Type = "member-summary"
	TypeUserManagement   Type = "user-management"
)

// DefaultType is mounted when the host configuration names no type.
const DefaultType = TypeUserDetails

// DefaultContainerID is the well-known mount element id used when the host
// configuration resolves no other target.
const DefaultContainerID = "proxyContainer"

func (t Type) String() string { return string(t) }

// Action names embeds emit in success payloads.
const (
	ActionLeave      = "leave"
	ActionUpdate     = "update"
	ActionNavigate   = "navigate"
	ActionRefresh    = "refresh"
	ActionAddUser    = "add-user"
	ActionEditUser   = "edit-user"
	ActionRemoveUser = "remove-user"
)

// Payload is delivered to the host's success callback when an embed action
// completes. Action disambiguates which interaction fired.
type Payload struct {
	Action string         `json:"type"`
	Data   map[string]any `json:"data,omitempty"`
}

// Config is the host-supplied configuration for one InitVerification call.
// The recognized keys are typed; everything else the host passes rides in
// Extra and reaches the renderer untouched.
type Config struct {
	// Type selects the embed; empty means DefaultType.
	Type Type

	// Mount target resolution, in precedence order.
	Target      *hostdoc.Element // explicit element reference
	Selector    string           // css id selector, e.g. "#proxyContainer"
	ReferenceID string           // fallback element id
	ContainerID string           // fallback element id (alternate key)

	// Variant is an optional visual variant class for the rendering surface.
	Variant string

	// Success receives action payloads emitted by the mounted embed.
	Success func(Payload)
	// Failure receives every internal error; it is never allowed to panic
	// past the runtime boundary.
	Failure func(error)

	// Extra carries unrecognized host keys through to the renderer.
	Extra map[string]any
}

// RegistryHandle is the registry surface exposed to renderers and bundle
// installation code.
type RegistryHandle interface {
	Register(t Type, fn RenderFunc)
	Lookup(t Type) (RenderFunc, bool)
}

// RenderFunc renders one embed into the given context's surface. Renderers
// bind their own actions on the surface; errors funnel into the host's
// failure callback.
type RenderFunc func(ctx context.Context, rc *RenderContext) error

// RenderContext is constructed fresh per InitVerification call and
// discarded after the renderer returns.
type RenderContext struct {
	Surface  *hostdoc.Container
	Data     *staticdata.Snapshot
	Config   *Config
	Registry RegistryHandle
}
