package staticdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"proxyauth/internal/sentinel"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPProvider fetches snapshots from the backend data API. The backend is
// an opaque collaborator; this provider only knows its snapshot endpoint.
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates a provider for the given snapshot endpoint URL.
// Pass a nil client to use a default with a request timeout.
func NewHTTPProvider(url string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPProvider{url: url, client: client}
}

// Snapshot performs a GET against the snapshot endpoint and decodes the result.
func (p *HTTPProvider) Snapshot(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("snapshot endpoint: %w", sentinel.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot endpoint returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var s Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
