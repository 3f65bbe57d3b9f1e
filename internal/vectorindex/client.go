// Package vectorindex is a minimal REST client for a Qdrant-compatible vector
// index. The index itself is an external service; this package only consumes
// the narrow contract the pipeline needs: collection create/delete, batched
// point upsert, and nearest-neighbor search with payloads.
package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Sentinel errors mapped from index responses. Handlers translate these to
// HTTP statuses at the boundary.
var (
	// ErrConflict indicates a collection with the requested name already exists.
	ErrConflict = errors.New("collection already exists")

	// ErrNotFound indicates the requested collection does not exist.
	ErrNotFound = errors.New("collection not found")
)

// DistanceCosine is the similarity metric used for every collection.
const DistanceCosine = "Cosine"

// defaultTimeout bounds individual index requests when the caller's context
// carries no deadline of its own.
const defaultTimeout = 30 * time.Second

// Point is one vector plus its payload, keyed by a UUID.
type Point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// ScoredPoint is a search hit: similarity score plus the stored payload.
type ScoredPoint struct {
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// Config holds connection settings for the index.
type Config struct {
	URL     string        // base URL, e.g. http://localhost:6333
	APIKey  string        // optional api-key header value
	Timeout time.Duration // per-request timeout; 0 = defaultTimeout
}

// Client talks to the index over HTTP. Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger
}

// New creates an index client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// CreateCollection creates a named collection with the given vector dimension
// and distance metric. Returns ErrConflict if the collection already exists.
func (c *Client) CreateCollection(ctx context.Context, name string, dimension int, distance string) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": distance,
		},
	}
	err := c.do(ctx, http.MethodPut, "/collections/"+name, body, nil)
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", name, err)
	}
	return nil
}

// DeleteCollection removes a collection and all its points. Deleting a
// collection that does not exist is not an error.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	err := c.do(ctx, http.MethodDelete, "/collections/"+name, nil, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}
	return nil
}

// Upsert writes points into the named collection and waits for the write to
// be applied. Callers batch points themselves; a failure aborts the whole
// request with no partial-success reporting.
func (c *Client) Upsert(ctx context.Context, name string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	err := c.do(ctx, http.MethodPut, "/collections/"+name+"/points?wait=true", body, nil)
	if err != nil {
		return fmt.Errorf("upserting %d points into %q: %w", len(points), name, err)
	}
	c.logger.Debug("points upserted", "collection", name, "count", len(points))
	return nil
}

// Search returns the k nearest points to the query vector, ranked by score,
// with payloads attached.
func (c *Client) Search(ctx context.Context, name string, vector []float32, k int) ([]ScoredPoint, error) {
	if k <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d", k)
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []ScoredPoint `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/collections/"+name+"/points/search", body, &resp); err != nil {
		return nil, fmt.Errorf("searching collection %q: %w", name, err)
	}
	return resp.Result, nil
}

// do executes one JSON request against the index and decodes the response
// into out when out is non-nil. Status codes 409 and 404 map to the package
// sentinel errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("index request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 300:
		return fmt.Errorf("index returned %s for %s %s", resp.Status, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
