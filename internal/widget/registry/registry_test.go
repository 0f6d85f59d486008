package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxyauth/internal/widget/models"
	"proxyauth/pkg/testutil"
)

func noopRenderer(context.Context, *models.RenderContext) error { return nil }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := New()

	_, ok := r.Lookup(models.TypeUserDetails)
	assert.False(t, ok, "empty registry should have no renderers")

	r.Register(models.TypeUserDetails, noopRenderer)

	fn, ok := r.Lookup(models.TypeUserDetails)
	require.True(t, ok)
	assert.NotNil(t, fn)
}

func TestRegistry_LastWriteWins(t *testing.T) {
	r := New()

	first := false
	r.Register(models.TypeUserDetails, func(context.Context, *models.RenderContext) error {
		first = true
		return nil
	})
	second := false
	r.Register(models.TypeUserDetails, func(context.Context, *models.RenderContext) error {
		second = true
		return nil
	})

	fn, ok := r.Lookup(models.TypeUserDetails)
	require.True(t, ok)
	require.NoError(t, fn(context.Background(), nil))
	assert.False(t, first, "replaced renderer must not run")
	assert.True(t, second)
}

func TestRegistry_Types(t *testing.T) {
	r := New()
	r.Register(models.TypeUserDetails, noopRenderer)
	r.Register(models.TypeMemberSummary, noopRenderer)

	assert.ElementsMatch(t,
		[]models.Type{models.TypeUserDetails, models.TypeMemberSummary},
		r.Types(),
	)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := New()

	result := testutil.RunConcurrent(50, func(idx int) error {
		typ := models.Type(fmt.Sprintf("embed-%d", idx%5))
		r.Register(typ, noopRenderer)
		if _, ok := r.Lookup(typ); !ok {
			return fmt.Errorf("lookup after register failed for %s", typ)
		}
		return nil
	})

	assert.Equal(t, int32(50), result.Successes)
	assert.Len(t, r.Types(), 5)
}
