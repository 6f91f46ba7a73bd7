// Package catalog holds the shared lookup tables consumed by the retailer
// selector and the item resolver: category standardization, brand tiers,
// garment archetypes, and per-category defaults. Keeping a single copy here
// prevents drift between consumers.
package catalog

import (
	"strings"

	"github.com/lookbook-labs/stylist-cli/internal/model"
)

// categoryKeywords maps each standardized category to the free-text synonyms
// that collapse into it. Order matters: more specific categories are checked
// before generic ones (a "sweater dress" is a dress, not a top).
var categoryKeywords = []struct {
	category model.Category
	keywords []string
}{
	{model.CategoryDress, []string{"dress", "gown", "jumpsuit", "romper", "frock"}},
	{model.CategoryOuterwear, []string{"jacket", "coat", "blazer", "cardigan", "parka", "trench", "outerwear", "puffer", "windbreaker"}},
	{model.CategoryShoes, []string{"shoe", "boot", "sneaker", "heel", "sandal", "loafer", "flat", "pump", "mule", "footwear", "trainer"}},
	{model.CategoryBottom, []string{"pant", "jean", "trouser", "skirt", "short", "legging", "chino", "culotte", "bottom"}},
	{model.CategoryAccessory, []string{"bag", "belt", "hat", "scarf", "jewelry", "necklace", "earring", "bracelet", "watch", "sunglasses", "clutch", "purse", "tote", "accessory", "accessories"}},
	{model.CategoryTop, []string{"top", "shirt", "blouse", "tee", "t-shirt", "sweater", "tank", "camisole", "bodysuit", "hoodie", "pullover", "knit"}},
}

// StandardizeCategory collapses a free-text category (or, failing that, an
// item description) into the fixed category enum. Defaults to Top.
func StandardizeCategory(category, description string) model.Category {
	for _, probe := range []string{category, description} {
		s := strings.ToLower(probe)
		if s == "" {
			continue
		}
		for _, entry := range categoryKeywords {
			for _, kw := range entry.keywords {
				if strings.Contains(s, kw) {
					return entry.category
				}
			}
		}
	}
	return model.CategoryTop
}

// BrandTier classifies a brand for sourcing heuristics.
type BrandTier string

const (
	TierLuxury     BrandTier = "luxury"
	TierAccessible BrandTier = "accessible"
	TierAthletic   BrandTier = "athletic"
	TierBudget     BrandTier = "budget"
	TierUnknown    BrandTier = "unknown"
)

// Brand pools. The athletic and budget lists are the union of the two
// near-duplicate lists found in the source heuristics; see DESIGN.md.
var (
	LuxuryBrands = []string{
		"gucci", "prada", "saint laurent", "balenciaga", "bottega veneta",
		"valentino", "givenchy", "celine", "loewe", "fendi", "dior",
		"chanel", "hermes", "burberry", "versace", "tom ford",
	}
	AccessibleBrands = []string{
		"madewell", "everlane", "j.crew", "banana republic", "cos",
		"& other stories", "reformation", "aritzia", "free people",
		"anthropologie", "abercrombie", "mango", "massimo dutti",
	}
	AthleticBrands = []string{
		"nike", "adidas", "lululemon", "alo yoga", "athleta", "under armour",
		"new balance", "puma", "gymshark", "on running", "vuori", "outdoor voices",
	}
	BudgetBrands = []string{
		"shein", "h&m", "forever 21", "old navy", "primark", "boohoo",
		"fashion nova", "romwe", "zaful",
	}
	// ExcludedBrands are never sourced from the secondary retailer regardless
	// of other signals. Exclusion does not affect retailer choice itself.
	ExcludedBrands = []string{
		"supreme", "off-white", "fear of god", "chrome hearts",
	}
)

// TierOf returns the tier of a brand by case-insensitive substring match.
func TierOf(brand string) BrandTier {
	b := strings.ToLower(strings.TrimSpace(brand))
	if b == "" {
		return TierUnknown
	}
	for _, tier := range []struct {
		tier   BrandTier
		brands []string
	}{
		{TierLuxury, LuxuryBrands},
		{TierAthletic, AthleticBrands},
		{TierBudget, BudgetBrands},
		{TierAccessible, AccessibleBrands},
	} {
		for _, known := range tier.brands {
			if strings.Contains(b, known) || strings.Contains(known, b) {
				return tier.tier
			}
		}
	}
	return TierUnknown
}

// IsExcluded reports whether a brand is on the sourcing exclusion list.
func IsExcluded(brand string) bool {
	b := strings.ToLower(strings.TrimSpace(brand))
	if b == "" {
		return false
	}
	for _, known := range ExcludedBrands {
		if strings.Contains(b, known) {
			return true
		}
	}
	return false
}

// archetypes maps description keywords to display names for synthesized
// fallback products.
var archetypes = []struct {
	keywords []string
	name     string
}{
	{[]string{"blazer"}, "Tailored Blazer"},
	{[]string{"trench"}, "Belted Trench Coat"},
	{[]string{"leather jacket", "moto"}, "Leather Moto Jacket"},
	{[]string{"denim jacket"}, "Classic Denim Jacket"},
	{[]string{"coat", "jacket", "parka"}, "Wool Blend Coat"},
	{[]string{"cardigan"}, "Ribbed Knit Cardigan"},
	{[]string{"sweater", "knit", "pullover"}, "Crewneck Sweater"},
	{[]string{"silk", "blouse"}, "Silk Blouse"},
	{[]string{"button", "oxford"}, "Cotton Button-Down Shirt"},
	{[]string{"tee", "t-shirt"}, "Relaxed Cotton Tee"},
	{[]string{"tank", "camisole"}, "Satin Camisole"},
	{[]string{"bodysuit"}, "Fitted Bodysuit"},
	{[]string{"maxi"}, "Flowing Maxi Dress"},
	{[]string{"midi"}, "Midi Wrap Dress"},
	{[]string{"slip dress"}, "Bias-Cut Slip Dress"},
	{[]string{"gown", "evening"}, "Evening Gown"},
	{[]string{"dress"}, "A-Line Dress"},
	{[]string{"wide leg", "wide-leg"}, "Wide-Leg Trousers"},
	{[]string{"jean", "denim"}, "High-Rise Straight Jeans"},
	{[]string{"trouser", "slack"}, "Pleated Trousers"},
	{[]string{"skirt"}, "Pleated Midi Skirt"},
	{[]string{"short"}, "Tailored Shorts"},
	{[]string{"legging"}, "High-Waist Leggings"},
	{[]string{"ankle boot", "bootie"}, "Ankle Boots"},
	{[]string{"boot"}, "Knee-High Boots"},
	{[]string{"sneaker", "trainer"}, "Low-Top Sneakers"},
	{[]string{"heel", "pump", "stiletto"}, "Pointed-Toe Heels"},
	{[]string{"sandal"}, "Strappy Sandals"},
	{[]string{"loafer"}, "Leather Loafers"},
	{[]string{"tote"}, "Structured Tote Bag"},
	{[]string{"clutch"}, "Evening Clutch"},
	{[]string{"crossbody", "bag", "purse"}, "Leather Crossbody Bag"},
	{[]string{"belt"}, "Leather Belt"},
	{[]string{"scarf"}, "Silk Scarf"},
	{[]string{"sunglasses"}, "Oversized Sunglasses"},
	{[]string{"necklace", "jewelry"}, "Gold Pendant Necklace"},
	{[]string{"earring"}, "Statement Earrings"},
	{[]string{"watch"}, "Minimalist Watch"},
	{[]string{"hat"}, "Wool Fedora"},
}

// ArchetypeName picks a display name for a synthesized fallback product by
// keyword-matching the item description. Falls back to a per-category default.
func ArchetypeName(description string, category model.Category) string {
	d := strings.ToLower(description)
	for _, a := range archetypes {
		for _, kw := range a.keywords {
			if strings.Contains(d, kw) {
				return a.name
			}
		}
	}
	switch category {
	case model.CategoryDress:
		return "A-Line Dress"
	case model.CategoryBottom:
		return "Tailored Trousers"
	case model.CategoryShoes:
		return "Leather Flats"
	case model.CategoryAccessory:
		return "Leather Crossbody Bag"
	case model.CategoryOuterwear:
		return "Wool Blend Coat"
	default:
		return "Classic Knit Top"
	}
}

// placeholderImages provides a synthetic image per category for fallback items.
var placeholderImages = map[model.Category]string{
	model.CategoryTop:       "https://placehold.co/400x500?text=Top",
	model.CategoryBottom:    "https://placehold.co/400x500?text=Bottoms",
	model.CategoryDress:     "https://placehold.co/400x500?text=Dress",
	model.CategoryShoes:     "https://placehold.co/400x500?text=Shoes",
	model.CategoryAccessory: "https://placehold.co/400x500?text=Accessory",
	model.CategoryOuterwear: "https://placehold.co/400x500?text=Outerwear",
}

// PlaceholderImage returns the placeholder image URL for a category, or ""
// when none exists.
func PlaceholderImage(category model.Category) string {
	return placeholderImages[category]
}

// defaultPrices anchor synthesized fallback items and unparseable provider
// prices to plausible values per category.
var defaultPrices = map[model.Category]float64{
	model.CategoryTop:       45,
	model.CategoryBottom:    60,
	model.CategoryDress:     90,
	model.CategoryShoes:     85,
	model.CategoryAccessory: 35,
	model.CategoryOuterwear: 120,
}

// DefaultPrice returns the default price for a category.
func DefaultPrice(category model.Category) float64 {
	if p, ok := defaultPrices[category]; ok {
		return p
	}
	return 50
}
