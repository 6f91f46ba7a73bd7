// Package retailer decides which retail backend's catalog to target for an
// item and builds themed destination search URLs. The keyword and brand lists
// are configuration data, not logic; DefaultRules is the merged union of the
// hand-curated lists this heuristic inherited.
package retailer

import (
	"fmt"
	"strings"

	"github.com/lookbook-labs/stylist-cli/internal/catalog"
	"github.com/lookbook-labs/stylist-cli/internal/model"
)

// Retailer identifiers. Nordstrom is the broad, luxury-capable default;
// Amazon serves the narrow budget and athletic exceptions.
const (
	RetailerNordstrom = "nordstrom"
	RetailerAmazon    = "amazon"
)

var displayNames = map[string]string{
	RetailerNordstrom: "Nordstrom",
	RetailerAmazon:    "Amazon Fashion",
}

// searchTemplates are the retailer search-page URL prefixes the product URL
// builder appends encoded terms to.
var searchTemplates = map[string]string{
	RetailerNordstrom: "https://www.nordstrom.com/sr?keyword=",
	RetailerAmazon:    "https://www.amazon.com/s?k=",
}

// AllowedSources maps a retailer family to the provider result sources
// accepted for it (lower-case substring match).
var AllowedSources = map[string][]string{
	RetailerNordstrom: {"nordstrom", "nordstrom rack"},
	RetailerAmazon:    {"amazon", "amazon.com"},
}

// Rules holds the keyword/brand lists driving retailer selection.
type Rules struct {
	UltraBudgetBrands []string `mapstructure:"ultra_budget_brands"`
	AthleticBrands    []string `mapstructure:"athletic_brands"`
	ExcludedBrands    []string `mapstructure:"excluded_brands"`
	BudgetKeywords    []string `mapstructure:"budget_keywords"`
	AthleticKeywords  []string `mapstructure:"athletic_keywords"`
}

// DefaultRules returns the built-in selection rules.
func DefaultRules() Rules {
	return Rules{
		UltraBudgetBrands: catalog.BudgetBrands,
		AthleticBrands:    catalog.AthleticBrands,
		ExcludedBrands:    catalog.ExcludedBrands,
		BudgetKeywords: []string{
			"cheap", "affordable", "budget", "inexpensive", "bargain",
			"under $", "low cost", "save money", "thrifty",
		},
		AthleticKeywords: []string{
			"gym", "workout", "athletic", "running", "training", "yoga",
			"sport", "exercise", "fitness", "activewear", "athleisure",
		},
	}
}

// Selector is a pure scoring function over its rules; it holds no mutable
// state and is safe for concurrent use.
type Selector struct {
	rules Rules
}

// NewSelector creates a selector. Empty rule lists fall back to the defaults.
func NewSelector(rules Rules) *Selector {
	def := DefaultRules()
	if len(rules.UltraBudgetBrands) == 0 {
		rules.UltraBudgetBrands = def.UltraBudgetBrands
	}
	if len(rules.AthleticBrands) == 0 {
		rules.AthleticBrands = def.AthleticBrands
	}
	if len(rules.ExcludedBrands) == 0 {
		rules.ExcludedBrands = def.ExcludedBrands
	}
	if len(rules.BudgetKeywords) == 0 {
		rules.BudgetKeywords = def.BudgetKeywords
	}
	if len(rules.AthleticKeywords) == 0 {
		rules.AthleticKeywords = def.AthleticKeywords
	}
	return &Selector{rules: rules}
}

// Choose picks a retail backend for the given signals. Total and
// deterministic: identical inputs always produce an identical decision.
//
// Nordstrom wins by default with confidence 0.9. Three exceptions override,
// evaluated in priority order with short-circuiting:
//  1. excluded brand — forced to Nordstrom anyway (exclusion blocks sourcing
//     elsewhere, not retailer choice);
//  2. ultra-budget brand + budget-conscious prompt + budget < 100 — Amazon;
//  3. athletic brand + athletic prompt — Amazon.
func (s *Selector) Choose(prompt, style string, budget float64, brand, category string) model.RetailerDecision {
	promptLower := strings.ToLower(prompt)
	brandLower := strings.ToLower(strings.TrimSpace(brand))

	decision := func(retailer string, confidence, score float64, reasoning string) model.RetailerDecision {
		return model.RetailerDecision{
			Retailer:    retailer,
			DisplayName: displayNames[retailer],
			Confidence:  confidence,
			Reasoning:   reasoning,
			Score:       score,
			Prompt:      prompt,
			Style:       style,
		}
	}

	if brandLower != "" && matchAny(brandLower, s.rules.ExcludedBrands) {
		return decision(RetailerNordstrom, 0.9, 10,
			fmt.Sprintf("brand %q is on the exclusion list; defaulting to full-catalog retailer", brand))
	}

	if brandLower != "" && budget > 0 && budget < 100 &&
		matchAny(brandLower, s.rules.UltraBudgetBrands) &&
		containsAny(promptLower, s.rules.BudgetKeywords) {
		return decision(RetailerAmazon, 0.7, 6,
			fmt.Sprintf("ultra-budget brand %q with budget-conscious prompt under $100", brand))
	}

	if brandLower != "" && matchAny(brandLower, s.rules.AthleticBrands) &&
		containsAny(promptLower, s.rules.AthleticKeywords) {
		return decision(RetailerAmazon, 0.8, 8,
			fmt.Sprintf("athletic brand %q with sportswear prompt", brand))
	}

	return decision(RetailerNordstrom, 0.9, 10, "broad luxury-capable default")
}

// SearchTemplate returns the search-page URL prefix for a retailer, falling
// back to the default retailer's template.
func SearchTemplate(retailer string) string {
	if tpl, ok := searchTemplates[retailer]; ok {
		return tpl
	}
	return searchTemplates[RetailerNordstrom]
}

// SourceAllowed reports whether a provider result source is acceptable for
// the retailer family.
func SourceAllowed(retailer, source string) bool {
	src := strings.ToLower(strings.TrimSpace(source))
	if src == "" {
		return false
	}
	allowed, ok := AllowedSources[retailer]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if strings.Contains(src, a) {
			return true
		}
	}
	return false
}

func matchAny(needle string, list []string) bool {
	for _, item := range list {
		it := strings.ToLower(item)
		if strings.Contains(needle, it) || strings.Contains(it, needle) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
