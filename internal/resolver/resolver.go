// Package resolver turns one concept item into a concrete, priced, linkable
// product, degrading to a deterministic synthetic fallback when the shopping
// provider cannot deliver.
package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lookbook-labs/stylist-cli/internal/cache"
	"github.com/lookbook-labs/stylist-cli/internal/catalog"
	"github.com/lookbook-labs/stylist-cli/internal/model"
	"github.com/lookbook-labs/stylist-cli/internal/resilience"
	"github.com/lookbook-labs/stylist-cli/internal/retailer"
	"github.com/lookbook-labs/stylist-cli/pkg/shopsearch"
)

// fuzzyThreshold is the similarity a prior cache key must reach before its
// result is reused for a near-identical item.
const fuzzyThreshold = 0.8

// Request carries everything needed to resolve one concept item.
type Request struct {
	Item   model.ConceptItem
	Prompt string
	Style  string
	Gender string
	Budget float64
	// MaxPrice caps the item's search price; computed by the budget allocator
	// before search. Zero means uncapped.
	MaxPrice float64
}

// Resolver resolves concept items against the shopping-search provider.
type Resolver struct {
	search   shopsearch.Client
	cache    *cache.Service
	selector *retailer.Selector
	retry    resilience.RetryConfig
	breaker  *resilience.Breaker
	limit    int // provider results requested per query
}

// New creates a Resolver.
func New(search shopsearch.Client, cacheSvc *cache.Service, selector *retailer.Selector, retry resilience.RetryConfig) *Resolver {
	return &Resolver{
		search:   search,
		cache:    cacheSvc,
		selector: selector,
		retry:    retry,
		breaker:  resilience.NewBreaker("shopsearch", 5, 0),
		limit:    10,
	}
}

// Resolve produces a fully-populated OutfitItem for the concept item. It
// never returns an error: any failure path ends in a synthetic fallback.
func (r *Resolver) Resolve(ctx context.Context, req Request) model.OutfitItem {
	criteria := BuildCriteria(req)
	decision := r.selector.Choose(req.Prompt, req.Style, req.Budget, BrandHint(req.Item), string(criteria.Category))

	key := cache.Key("item", criteria.Query, criteria.Gender, req.Budget)
	if cached, ok := r.cache.Get(key, cache.TierMedium); ok {
		if item, ok := cached.(model.OutfitItem); ok {
			return item
		}
	}
	if cached, ok := r.cache.FindSimilar(key, fuzzyThreshold, cache.TierMedium); ok {
		if item, ok := cached.(model.OutfitItem); ok {
			zap.L().Debug("fuzzy cache hit for item", zap.String("key", key))
			return item
		}
	}

	item, ok := r.searchProduct(ctx, req, criteria, decision)
	if !ok {
		item = synthesizeFallback(req, criteria, decision)
	}

	r.cache.Set(key, item, cache.TierMedium)
	return item
}

// searchProduct queries the provider with retry and progressive query
// simplification, then filters candidates to the chosen retailer family.
func (r *Resolver) searchProduct(ctx context.Context, req Request, criteria model.SearchCriteria, decision model.RetailerDecision) (model.OutfitItem, bool) {
	if !r.breaker.Allow() {
		zap.L().Debug("provider circuit open, skipping search",
			zap.String("query", criteria.Query))
		return model.OutfitItem{}, false
	}

	retryCfg := r.retry
	retryCfg.OnAttempt = resilience.AttemptLogger("shopsearch", "search")

	resp, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context, attempt int) (*shopsearch.SearchResponse, error) {
		return r.search.Search(ctx, shopsearch.SearchRequest{
			Query:    simplifyQuery(criteria.Query, req.Item, criteria.Category, attempt),
			Category: string(criteria.Category),
			Gender:   criteria.Gender,
			MinPrice: criteria.MinPrice,
			MaxPrice: criteria.MaxPrice,
			Limit:    r.limit,
		})
	})
	if err != nil {
		if resilience.IsRetryable(err) {
			r.breaker.RecordFailure()
		}
		zap.L().Warn("product search failed, falling back",
			zap.String("query", criteria.Query),
			zap.String("kind", string(resilience.KindOf(err))),
			zap.Error(err),
		)
		return model.OutfitItem{}, false
	}
	r.breaker.RecordSuccess()

	candidates := filterCandidates(resp.Results, decision.Retailer)
	if len(candidates) == 0 {
		zap.L().Debug("no candidate survived source filter",
			zap.String("query", criteria.Query),
			zap.String("retailer", decision.Retailer),
		)
		return model.OutfitItem{}, false
	}

	best := candidates[0]
	if best.Price <= 0 {
		best.Price = catalog.DefaultPrice(criteria.Category)
	}
	alternatives := candidates[1:]
	if len(alternatives) > 3 {
		alternatives = alternatives[:3]
	}

	url := best.Link
	if url == "" {
		url = retailer.BuildProductURL(best.Brand, best.Title, req.Item.Description, decision)
	}

	return model.OutfitItem{
		ProductID:    best.ID,
		Name:         best.Title,
		Brand:        best.Brand,
		Category:     criteria.Category,
		Price:        best.Price,
		URL:          url,
		ImageURL:     best.ImageURL,
		Description:  req.Item.Description,
		Color:        req.Item.Color,
		IsFallback:   false,
		Alternatives: alternatives,
	}, true
}

// filterCandidates keeps allow-listed sources for the retailer family,
// normalizing each survivor into a trusted ProductCandidate.
func filterCandidates(results []shopsearch.ShoppingResult, retailerID string) []model.ProductCandidate {
	var out []model.ProductCandidate
	for _, raw := range results {
		if !retailer.SourceAllowed(retailerID, raw.Source) {
			continue
		}
		title := CleanTitle(raw.Title)
		if title == "" {
			continue
		}
		price, ok := ParsePrice(raw.Price)
		if !ok {
			zap.L().Debug("unparseable price, defaulting",
				zap.String("title", raw.Title),
				zap.String("price", raw.Price),
			)
			price = 0 // defaulted by caller per category if selected
		}
		out = append(out, model.ProductCandidate{
			ID:       raw.ProductID,
			Title:    title,
			Brand:    CleanBrand("", raw.Title),
			Price:    price,
			ImageURL: raw.Thumbnail,
			Link:     raw.Link,
			Source:   raw.Source,
		})
	}
	return out
}

// BuildCriteria derives the immutable search criteria for a concept item.
func BuildCriteria(req Request) model.SearchCriteria {
	category := catalog.StandardizeCategory(req.Item.Category, req.Item.Description)

	var parts []string
	if req.Item.Color != "" && !strings.Contains(strings.ToLower(req.Item.Description), strings.ToLower(req.Item.Color)) {
		parts = append(parts, req.Item.Color)
	}
	if req.Item.Description != "" {
		parts = append(parts, req.Item.Description)
	}
	for _, kw := range req.Item.Keywords {
		if kw != "" && !strings.Contains(strings.ToLower(strings.Join(parts, " ")), strings.ToLower(kw)) {
			parts = append(parts, kw)
		}
	}
	query := strings.TrimSpace(strings.Join(parts, " "))
	if query == "" {
		query = strings.ToLower(string(category))
	}

	return model.SearchCriteria{
		Query:    query,
		Category: category,
		Gender:   strings.ToLower(strings.TrimSpace(req.Gender)),
		MaxPrice: req.MaxPrice,
	}
}

// simplifyQuery progressively broadens the query on each retry: the full
// derived query first, color + category next, bare category last.
func simplifyQuery(full string, item model.ConceptItem, category model.Category, attempt int) string {
	switch {
	case attempt == 0:
		return full
	case attempt == 1 && item.Color != "":
		return strings.TrimSpace(item.Color + " " + strings.ToLower(string(category)))
	default:
		return strings.ToLower(string(category))
	}
}

// BrandHint scans an item's keywords and description for a known brand so the
// retailer selector can apply its brand-tier exceptions.
func BrandHint(item model.ConceptItem) string {
	for _, kw := range item.Keywords {
		if catalog.TierOf(kw) != catalog.TierUnknown || catalog.IsExcluded(kw) {
			return kw
		}
	}
	for _, word := range strings.Fields(item.Description) {
		if catalog.TierOf(word) != catalog.TierUnknown || catalog.IsExcluded(word) {
			return word
		}
	}
	return ""
}
