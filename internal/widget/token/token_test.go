package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "proxyauth/pkg/domain-errors"

	"proxyauth/internal/widget/models"
)

const testKey = "test-signing-key"

func TestSigner_RoundTrip(t *testing.T) {
	s := NewSigner(testKey, "proxyauth", time.Minute)

	signed, err := s.Sign("sess-1", models.TypeUserDetails, []string{"update", "refresh"})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := s.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "user-details", claims.EmbedType)
	assert.True(t, claims.AllowsAction("update"))
	assert.True(t, claims.AllowsAction("refresh"))
	assert.False(t, claims.AllowsAction("remove-user"))
}

func TestSigner_DedupesActions(t *testing.T) {
	s := NewSigner(testKey, "proxyauth", time.Minute)

	signed, err := s.Sign("sess-1", models.TypeUserDetails, []string{" update ", "update", "", "refresh"})
	require.NoError(t, err)

	claims, err := s.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, []string{"update", "refresh"}, claims.Actions)
}

func TestSigner_RejectsWrongKey(t *testing.T) {
	signed, err := NewSigner(testKey, "proxyauth", time.Minute).Sign("sess-1", models.TypeUserDetails, nil)
	require.NoError(t, err)

	_, err = NewSigner("other-key", "proxyauth", time.Minute).Verify(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestSigner_RejectsWrongIssuer(t *testing.T) {
	signed, err := NewSigner(testKey, "someone-else", time.Minute).Sign("sess-1", models.TypeUserDetails, nil)
	require.NoError(t, err)

	_, err = NewSigner(testKey, "proxyauth", time.Minute).Verify(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestSigner_RejectsExpired(t *testing.T) {
	signed, err := NewSigner(testKey, "proxyauth", -time.Minute).Sign("sess-1", models.TypeUserDetails, nil)
	require.NoError(t, err)

	_, err = NewSigner(testKey, "proxyauth", time.Minute).Verify(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestSigner_RejectsGarbage(t *testing.T) {
	s := NewSigner(testKey, "proxyauth", time.Minute)

	_, err := s.Verify("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
