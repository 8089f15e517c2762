package game

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Syncer posts score snapshots to the backend. Each call sends the full
// derived state keyed by email; the server's upsert decides whether the
// snapshot is fresh enough to apply.
type Syncer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewSyncer(baseURL, apiKey string) *Syncer {
	return &Syncer{
		endpoint: baseURL + "/api/scores",
		apiKey:   apiKey,
		client:   http.DefaultClient,
	}
}

// Submit posts one snapshot and returns an error on any non-2xx response.
func (s *Syncer) Submit(ctx context.Context, snap Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting snapshot: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("score sync: unexpected status %d", resp.StatusCode)
	}
	return nil
}
