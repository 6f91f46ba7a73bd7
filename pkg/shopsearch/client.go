// Package shopsearch provides a client for the shopping-search provider
// (a SerpAPI-style Google Shopping endpoint). Results are untrusted and
// partial; callers default missing fields at the boundary.
package shopsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/lookbook-labs/stylist-cli/internal/resilience"
)

const defaultBaseURL = "https://serpapi.com"

// Client performs product searches against the shopping provider.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest describes one shopping query.
type SearchRequest struct {
	Query    string
	Category string
	Gender   string
	MinPrice float64
	MaxPrice float64
	Limit    int
}

// SearchResponse is the parsed provider response.
type SearchResponse struct {
	Results []ShoppingResult `json:"shopping_results"`
}

// ShoppingResult is one raw provider result. Every field may be absent.
type ShoppingResult struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"` // free text, e.g. "$1,249.00"
	Source    string `json:"source"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request throttle (2 req/s).
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// WithTimeout overrides the per-request timeout (default 15s).
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a shopping-search client. An empty apiKey is allowed at
// construction; Search then fails fast with a missing-credentials error so
// callers can take the fallback path without retrying.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(2, 2),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, resilience.NewProviderError(resilience.KindMissingCredentials, 0,
			eris.New("shopsearch: api key not configured"))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "shopsearch: rate limit wait")
		}
	}

	q := url.Values{}
	q.Set("engine", "google_shopping")
	q.Set("api_key", c.apiKey)
	q.Set("q", buildQuery(req))
	if req.Limit > 0 {
		q.Set("num", strconv.Itoa(req.Limit))
	}
	if req.MinPrice > 0 || req.MaxPrice > 0 {
		q.Set("tbs", priceFilter(req.MinPrice, req.MaxPrice))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "shopsearch: create request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, resilience.NewProviderError(resilience.KindUnavailable, 0,
			eris.Wrap(err, "shopsearch: send request"))
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.NewProviderError(resilience.KindUnavailable, resp.StatusCode,
			eris.Wrap(err, "shopsearch: read response"))
	}

	if resp.StatusCode != http.StatusOK {
		// Any non-200 is one retryable "attempt failed" signal; only bodies
		// that fail to parse are malformed.
		return nil, resilience.NewProviderError(resilience.KindUnavailable, resp.StatusCode,
			eris.Errorf("shopsearch: unexpected status %d: %s", resp.StatusCode, truncate(body, 200)))
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, resilience.NewProviderError(resilience.KindMalformed, resp.StatusCode,
			eris.Wrap(err, "shopsearch: unmarshal response"))
	}

	if len(result.Results) == 0 {
		return nil, resilience.NewProviderError(resilience.KindEmptyResults, resp.StatusCode,
			eris.Errorf("shopsearch: no shopping results for %q", req.Query))
	}

	return &result, nil
}

// buildQuery folds gender and category into the free-text query the way the
// provider expects.
func buildQuery(req SearchRequest) string {
	query := req.Query
	if req.Gender != "" {
		query = req.Gender + " " + query
	}
	if req.Category != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(req.Category)) {
		query = query + " " + req.Category
	}
	return query
}

func priceFilter(minPrice, maxPrice float64) string {
	filter := "mr:1,price:1"
	if minPrice > 0 {
		filter += fmt.Sprintf(",ppr_min:%d", int(minPrice))
	}
	if maxPrice > 0 {
		filter += fmt.Sprintf(",ppr_max:%d", int(maxPrice))
	}
	return filter
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
