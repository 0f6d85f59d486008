package surface

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxyauth/internal/widget/hostdoc"
)

func TestNew_PreparesIsolatedSurface(t *testing.T) {
	root := &hostdoc.Root{}

	c := New(root, "")
	require.NotNil(t, c)
	assert.Equal(t, BaseClass, c.Class())

	children := root.Children()
	require.Len(t, children, 1)
	assert.Same(t, c, children[0])

	// The shared stylesheet is scoped to the root.
	assert.Contains(t, root.HTML(), "<style>")
}

func TestNew_VariantClass(t *testing.T) {
	root := &hostdoc.Root{}

	c := New(root, "compact")
	assert.Equal(t, BaseClass+" compact", c.Class())

	c = New(root, "  dark  ")
	assert.Equal(t, BaseClass+" dark", c.Class())
}

func TestNew_ReplacesPriorSurface(t *testing.T) {
	root := &hostdoc.Root{}

	first := New(root, "")
	first.BindAction("leave", func(context.Context, map[string]any) error { return nil })
	first.SetHTML("<p>old content</p>")

	second := New(root, "")
	require.NotSame(t, first, second)

	children := root.Children()
	require.Len(t, children, 1, "old surface must be detached")
	assert.Same(t, second, children[0])
	assert.NotContains(t, root.HTML(), "old content")

	// Bindings on the detached surface are unreachable from the root.
	assert.Empty(t, second.Actions())
}
