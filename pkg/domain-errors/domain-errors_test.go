package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessageFallsBackToCode(t *testing.T) {
	withMsg := New(CodeEmbedLoadFailed, "could not fetch bundle")
	assert.Equal(t, "could not fetch bundle", withMsg.Error())

	bare := &Error{Code: CodeEmbedLoadFailed}
	assert.Equal(t, "embed_load_failed", bare.Error())
}

func TestWrap_PreservesInnerCode(t *testing.T) {
	inner := New(CodeUnknownEmbedType, "unknown embed type: bogus")
	outer := Wrap(inner, CodeInternal, "init failed")

	assert.True(t, HasCode(outer, CodeUnknownEmbedType), "wrapping must not mask the original code")
	assert.False(t, HasCode(outer, CodeInternal))
	assert.ErrorIs(t, outer, inner)
}

func TestWrap_PlainError(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeEmbedLoadFailed, "failed to load embed user-details")

	assert.True(t, HasCode(err, CodeEmbedLoadFailed))
	assert.ErrorIs(t, err, cause)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeMountTargetNotFound, "no mount element"))

	assert.True(t, HasCode(err, CodeMountTargetNotFound))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.False(t, HasCode(nil, CodeNotFound))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(CodeRendererNotRegistered, "renderer not registered for type: x")
	b := New(CodeRendererNotRegistered, "different message")

	require.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, New(CodeNotFound, "")))
}
