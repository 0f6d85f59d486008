// Package surface produces the isolated container a renderer populates.
package surface

import (
	"strings"

	"proxyauth/internal/widget/assets"
	"proxyauth/internal/widget/hostdoc"
)

// BaseClass is the class every rendering surface carries.
const BaseClass = "pa-embed"

// New prepares root for a fresh render: any prior content is removed, the
// shared stylesheet is injected, and a new content container with the base
// class plus the optional variant class is appended and returned.
//
// Calling New twice on the same root fully replaces the earlier surface:
// old containers are detached together with their action bindings.
func New(root *hostdoc.Root, variant string) *hostdoc.Container {
	root.Clear()
	root.AddStyle(assets.Stylesheet())

	class := BaseClass
	if v := strings.TrimSpace(variant); v != "" {
		class += " " + v
	}
	c := hostdoc.NewContainer(class)
	root.Append(c)
	return c
}
