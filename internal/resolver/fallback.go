package resolver

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/lookbook-labs/stylist-cli/internal/catalog"
	"github.com/lookbook-labs/stylist-cli/internal/model"
	"github.com/lookbook-labs/stylist-cli/internal/retailer"
)

// luxurySignals in the prompt steer fallback brands to the luxury pool.
var luxurySignals = []string{"luxury", "designer", "high-end", "couture", "premium"}

// synthesizeFallback builds a deterministic mock product for an item no real
// candidate could be sourced for. Same inputs always produce the same item,
// which keeps cached fallbacks stable across retries.
func synthesizeFallback(req Request, criteria model.SearchCriteria, decision model.RetailerDecision) model.OutfitItem {
	pool := catalog.AccessibleBrands
	if hasLuxurySignal(req.Prompt) || req.Budget >= 500 {
		pool = catalog.LuxuryBrands
	}
	brand := titleCase(pool[hashIndex(req.Item.Description, len(pool))])

	name := catalog.ArchetypeName(req.Item.Description, criteria.Category)
	price := catalog.DefaultPrice(criteria.Category)
	if criteria.MaxPrice > 0 && price > criteria.MaxPrice {
		price = criteria.MaxPrice
	}

	return model.OutfitItem{
		ProductID:   fmt.Sprintf("fallback-%08x", hashIndex(req.Item.Description+string(criteria.Category), 1<<31)),
		Name:        name,
		Brand:       brand,
		Category:    criteria.Category,
		Price:       price,
		URL:         retailer.BuildProductURL(brand, name, req.Item.Description, decision),
		ImageURL:    catalog.PlaceholderImage(criteria.Category),
		Description: req.Item.Description,
		Color:       req.Item.Color,
		IsFallback:  true,
	}
}

func hasLuxurySignal(prompt string) bool {
	p := strings.ToLower(prompt)
	for _, s := range luxurySignals {
		if strings.Contains(p, s) {
			return true
		}
	}
	return false
}

func hashIndex(s string, n int) int {
	if n <= 0 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(n))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
