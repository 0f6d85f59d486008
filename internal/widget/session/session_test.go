package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxyauth/internal/widget/hostdoc"
	"proxyauth/internal/widget/models"
	"proxyauth/pkg/testutil"
)

func newTestSession() *Session {
	doc := hostdoc.NewReadyDocument()
	el := doc.CreateElement(models.DefaultContainerID)
	return New(models.TypeUserDetails, doc, el)
}

func TestNew_AssignsIdentity(t *testing.T) {
	s := newTestSession()

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, models.TypeUserDetails, s.Type)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Zero(t, s.PayloadCount())

	other := newTestSession()
	assert.NotEqual(t, s.ID, other.ID)
}

func TestSession_RecordAndPayloads(t *testing.T) {
	s := newTestSession()

	s.Record(models.Payload{Action: "update"})
	s.Record(models.Payload{Action: "refresh"})

	payloads := s.Payloads()
	require.Len(t, payloads, 2)
	assert.Equal(t, "update", payloads[0].Action)
	assert.Equal(t, "refresh", payloads[1].Action)

	// Returned slice is a copy.
	payloads[0].Action = "mutated"
	assert.Equal(t, "update", s.Payloads()[0].Action)
}

func TestSession_PayloadsSince(t *testing.T) {
	s := newTestSession()
	s.Record(models.Payload{Action: "a"})
	s.Record(models.Payload{Action: "b"})
	s.Record(models.Payload{Action: "c"})

	assert.Len(t, s.PayloadsSince(0), 3)

	since := s.PayloadsSince(2)
	require.Len(t, since, 1)
	assert.Equal(t, "c", since[0].Action)

	assert.Nil(t, s.PayloadsSince(3))
	assert.Nil(t, s.PayloadsSince(10))
}

func TestSession_ConcurrentRecords(t *testing.T) {
	s := newTestSession()

	result := testutil.RunConcurrent(100, func(idx int) error {
		s.Record(models.Payload{Action: fmt.Sprintf("action-%d", idx)})
		return nil
	})

	assert.Equal(t, int32(100), result.Successes)
	assert.Equal(t, 100, s.PayloadCount())
}

func TestInMemory_CRUD(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	s := newTestSession()

	require.NoError(t, store.Save(ctx, s))

	got, err := store.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.FindByID(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, s.ID), ErrNotFound)
}

func TestInMemory_FindMissing(t *testing.T) {
	store := NewInMemory()
	_, err := store.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemory_ConcurrentSaves(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	result := testutil.RunConcurrent(50, func(int) error {
		return store.Save(ctx, newTestSession())
	})

	assert.Equal(t, int32(50), result.Successes)
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, count)
}
