// Package collage provides a client for the external collage-rendering
// service. Rendering is best-effort: callers leave the collage absent when
// the service fails.
package collage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lookbook-labs/stylist-cli/internal/model"
)

// Client renders outfit collages.
type Client interface {
	Render(ctx context.Context, req RenderRequest) (*RenderResponse, error)
}

// RenderRequest is the ordered item list to composite.
type RenderRequest struct {
	Items []RenderItem `json:"items"`
}

// RenderItem is one image slot in the collage.
type RenderItem struct {
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

// RenderResponse carries the composited image and per-category placement.
type RenderResponse struct {
	Image string                       `json:"image,omitempty"` // base64 PNG
	Map   map[string]model.BoundingBox `json:"map,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a collage client for the given renderer endpoint.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Render(ctx context.Context, req RenderRequest) (*RenderResponse, error) {
	if c.baseURL == "" {
		return nil, eris.New("collage: renderer URL not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "collage: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "collage: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "collage: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "collage: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("collage: unexpected status %d", resp.StatusCode)
	}

	var result RenderResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "collage: unmarshal response")
	}
	return &result, nil
}
