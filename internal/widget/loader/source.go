package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"proxyauth/internal/sentinel"
)

const (
	defaultFetchTimeout = 15 * time.Second
	maxBundleBytes      = 1 << 20 // 1 MiB; bundles are small JSON documents
)

// Source fetches raw bundle bytes from a resolved URL.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPSource fetches bundles over HTTP from the asset origin.
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource creates an HTTP bundle source. Pass nil to use a default
// client with a fetch timeout.
func NewHTTPSource(client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &HTTPSource{client: client}
}

// Fetch performs a GET against the bundle URL.
func (s *HTTPSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build bundle request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bundle: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("bundle %s: %w", url, sentinel.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("bundle %s returned %d: %w", url, resp.StatusCode, sentinel.ErrUnavailable)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBundleBytes))
	if err != nil {
		return nil, fmt.Errorf("read bundle body: %w", err)
	}
	return raw, nil
}
