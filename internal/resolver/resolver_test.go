package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbook-labs/stylist-cli/internal/cache"
	"github.com/lookbook-labs/stylist-cli/internal/model"
	"github.com/lookbook-labs/stylist-cli/internal/resilience"
	"github.com/lookbook-labs/stylist-cli/internal/retailer"
	"github.com/lookbook-labs/stylist-cli/pkg/shopsearch"
)

// stubSearch returns scripted responses per call.
type stubSearch struct {
	responses []*shopsearch.SearchResponse
	errs      []error
	calls     int
	queries   []string
}

func (s *stubSearch) Search(_ context.Context, req shopsearch.SearchRequest) (*shopsearch.SearchResponse, error) {
	idx := s.calls
	s.calls++
	s.queries = append(s.queries, req.Query)
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return nil, resilience.NewProviderError(resilience.KindEmptyResults, 200, errors.New("no results"))
}

func newResolver(search shopsearch.Client) *Resolver {
	return New(search, cache.New(), retailer.NewSelector(retailer.Rules{}), resilience.RetryConfig{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		Multiplier:  1,
	})
}

func sampleRequest() Request {
	return Request{
		Item: model.ConceptItem{
			Category:    "dress",
			Description: "silk maxi dress",
			Color:       "emerald",
		},
		Prompt: "summer wedding guest",
		Gender: "women",
		Budget: 400,
	}
}

func nordstromResult(title, price string) shopsearch.ShoppingResult {
	return shopsearch.ShoppingResult{
		ProductID: "p-" + title,
		Title:     title,
		Price:     price,
		Source:    "Nordstrom",
		Link:      "https://shop.example/" + title,
		Thumbnail: "https://img.example/" + title + ".jpg",
	}
}

func TestResolve_RealProduct(t *testing.T) {
	search := &stubSearch{responses: []*shopsearch.SearchResponse{
		{Results: []shopsearch.ShoppingResult{
			nordstromResult("Emerald Silk Maxi Dress", "$168.00"),
			nordstromResult("Satin Slip Dress", "$98.00"),
			{Title: "Knockoff Dress", Price: "$12", Source: "SketchyMarket"},
		}},
	}}
	r := newResolver(search)

	item := r.Resolve(context.Background(), sampleRequest())

	assert.False(t, item.IsFallback)
	assert.Equal(t, "Emerald Silk Maxi Dress", item.Name)
	assert.Equal(t, model.CategoryDress, item.Category)
	assert.InDelta(t, 168.0, item.Price, 0.001)
	assert.NotEmpty(t, item.URL)
	assert.NotEmpty(t, item.ImageURL)
	// Disallowed source filtered out of alternatives too.
	require.Len(t, item.Alternatives, 1)
	assert.Equal(t, "Satin Slip Dress", item.Alternatives[0].Title)
}

func TestResolve_FallbackAfterExhaustedRetries(t *testing.T) {
	down := resilience.NewProviderError(resilience.KindUnavailable, 503, errors.New("down"))
	search := &stubSearch{errs: []error{down, down}}
	r := newResolver(search)

	item := r.Resolve(context.Background(), sampleRequest())

	assert.True(t, item.IsFallback)
	assert.Equal(t, 2, search.calls, "retry policy should drive exactly MaxAttempts calls")
	assert.Equal(t, model.CategoryDress, item.Category)
	assert.Positive(t, item.Price)
	assert.NotEmpty(t, item.URL, "fallback must carry a synthetic destination")
	assert.NotEmpty(t, item.ImageURL, "fallback must carry a placeholder image")
	assert.NotEmpty(t, item.Brand)
	assert.NotEmpty(t, item.Name)
}

func TestResolve_FallbackDeterministic(t *testing.T) {
	down := resilience.NewProviderError(resilience.KindUnavailable, 503, errors.New("down"))
	a := newResolver(&stubSearch{errs: []error{down, down}}).Resolve(context.Background(), sampleRequest())
	b := newResolver(&stubSearch{errs: []error{down, down}}).Resolve(context.Background(), sampleRequest())
	assert.Equal(t, a, b, "fallback synthesis must be deterministic")
}

func TestResolve_QuerySimplifiedOnRetry(t *testing.T) {
	empty := resilience.NewProviderError(resilience.KindEmptyResults, 200, errors.New("none"))
	search := &stubSearch{
		errs: []error{empty, nil},
		responses: []*shopsearch.SearchResponse{
			nil,
			{Results: []shopsearch.ShoppingResult{nordstromResult("Emerald Dress", "$99")}},
		},
	}
	r := newResolver(search)

	item := r.Resolve(context.Background(), sampleRequest())

	require.Equal(t, 2, search.calls)
	assert.Contains(t, search.queries[0], "silk maxi dress")
	assert.Equal(t, "emerald dress", search.queries[1], "retry should simplify to color + category")
	assert.False(t, item.IsFallback)
}

func TestResolve_MissingCredentialsGoesStraightToFallback(t *testing.T) {
	noCreds := resilience.NewProviderError(resilience.KindMissingCredentials, 0, errors.New("no key"))
	search := &stubSearch{errs: []error{noCreds, noCreds, noCreds}}
	r := newResolver(search)

	item := r.Resolve(context.Background(), sampleRequest())

	assert.True(t, item.IsFallback)
	assert.Equal(t, 1, search.calls, "missing credentials must not be retried")
}

func TestResolve_CachesOutcome(t *testing.T) {
	search := &stubSearch{responses: []*shopsearch.SearchResponse{
		{Results: []shopsearch.ShoppingResult{nordstromResult("Emerald Dress", "$99")}},
	}}
	r := newResolver(search)

	first := r.Resolve(context.Background(), sampleRequest())
	second := r.Resolve(context.Background(), sampleRequest())

	assert.Equal(t, 1, search.calls, "second resolve should hit the cache")
	assert.Equal(t, first, second)
}

func TestResolve_FallbackAlsoCached(t *testing.T) {
	down := resilience.NewProviderError(resilience.KindUnavailable, 503, errors.New("down"))
	search := &stubSearch{errs: []error{down, down, down, down}}
	r := newResolver(search)

	r.Resolve(context.Background(), sampleRequest())
	calls := search.calls
	r.Resolve(context.Background(), sampleRequest())

	assert.Equal(t, calls, search.calls, "cached fallback must not re-query the provider")
}

func TestResolve_UnparseablePriceDefaulted(t *testing.T) {
	search := &stubSearch{responses: []*shopsearch.SearchResponse{
		{Results: []shopsearch.ShoppingResult{nordstromResult("Mystery Dress", "Free")}},
	}}
	r := newResolver(search)

	item := r.Resolve(context.Background(), sampleRequest())

	assert.False(t, item.IsFallback)
	assert.Positive(t, item.Price, "unparseable price defaults per category, never zero or crash")
}

func TestBuildCriteria(t *testing.T) {
	c := BuildCriteria(Request{
		Item: model.ConceptItem{
			Category:    "denim",
			Description: "high-rise straight jeans",
			Color:       "indigo",
			Keywords:    []string{"vintage", "jeans"},
		},
		Gender:   " Women ",
		MaxPrice: 120,
	})

	assert.Equal(t, model.CategoryBottom, c.Category)
	assert.Equal(t, "women", c.Gender)
	assert.Equal(t, 120.0, c.MaxPrice)
	assert.Contains(t, c.Query, "indigo")
	assert.Contains(t, c.Query, "high-rise straight jeans")
	assert.Contains(t, c.Query, "vintage")
	// "jeans" already in the description; not repeated.
	assert.Equal(t, 1, strings.Count(c.Query, "jeans"))
}

func TestBrandHint(t *testing.T) {
	assert.Equal(t, "lululemon", BrandHint(model.ConceptItem{Keywords: []string{"stretchy", "lululemon"}}))
	assert.Equal(t, "", BrandHint(model.ConceptItem{Description: "plain cotton tee"}))
}
