package staticdata

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxyauth/internal/sentinel"
)

func TestFixture_SnapshotIsIsolatedPerCall(t *testing.T) {
	f := NewFixture()
	ctx := context.Background()

	first, err := f.Snapshot(ctx)
	require.NoError(t, err)

	// Mutate everything the first caller can reach.
	first.Client.Name = "mutated"
	first.Companies[0].Name = "mutated"
	first.TeamMembers[0].Email = "mutated"

	second, err := f.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Avery Collins", second.Client.Name)
	assert.Equal(t, "Northwind Traders", second.Companies[0].Name)
	assert.Equal(t, "priya.raman@example.com", second.TeamMembers[0].Email)
}

func TestSnapshot_CurrentCompany(t *testing.T) {
	f := NewFixture()
	snap, err := f.Snapshot(context.Background())
	require.NoError(t, err)

	current, ok := snap.CurrentCompany()
	require.True(t, ok)
	assert.Equal(t, "Northwind Traders", current.Name)

	empty := &Snapshot{}
	_, ok = empty.CurrentCompany()
	assert.False(t, ok)
}

func TestSnapshot_CloneNil(t *testing.T) {
	var s *Snapshot
	assert.Nil(t, s.Clone())
}

func TestHTTPProvider_Snapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"client": {"name": "Remote User", "email": "remote@example.com"},
			"companies": [{"id": "c1", "name": "Remote Co", "isCurrent": true}],
			"teamMembers": []
		}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, nil)
	snap, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Remote User", snap.Client.Name)

	current, ok := snap.CurrentCompany()
	require.True(t, ok)
	assert.Equal(t, "Remote Co", current.Name)
}

func TestHTTPProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{name: "not found", status: http.StatusNotFound, expected: sentinel.ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError, expected: sentinel.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := NewHTTPProvider(srv.URL, nil)
			_, err := p.Snapshot(context.Background())
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

// failingProvider always errors, standing in for a down upstream.
type failingProvider struct {
	calls int
}

func (p *failingProvider) Snapshot(context.Context) (*Snapshot, error) {
	p.calls++
	return nil, errors.New("upstream down")
}

func TestResilient_FallsBackOnFailure(t *testing.T) {
	primary := &failingProvider{}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := NewResilient(primary, NewFixture(), logger)

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Avery Collins", snap.Client.Name)
}

func TestResilient_KeepsServingWhileCircuitOpen(t *testing.T) {
	primary := &failingProvider{}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := NewResilient(primary, NewFixture(), logger)

	// Enough failures to trip the default threshold, then some more.
	for i := 0; i < 10; i++ {
		snap, err := r.Snapshot(context.Background())
		require.NoError(t, err)
		require.NotNil(t, snap)
	}
}

func TestResilient_UsesPrimaryWhenHealthy(t *testing.T) {
	primary := NewFixtureWith(Snapshot{Client: Client{Name: "Primary"}})
	fallback := NewFixtureWith(Snapshot{Client: Client{Name: "Fallback"}})
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := NewResilient(primary, fallback, logger)

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Primary", snap.Client.Name)
}
