package model

import "math"

// Category is the standardized garment category. Free-text concept categories
// are collapsed into this enum by catalog.StandardizeCategory.
type Category string

const (
	CategoryTop       Category = "Top"
	CategoryBottom    Category = "Bottom"
	CategoryDress     Category = "Dress"
	CategoryShoes     Category = "Shoes"
	CategoryAccessory Category = "Accessory"
	CategoryOuterwear Category = "Outerwear"
)

// OutfitConcept is an abstract outfit description produced by the concept
// generator. Read-only input to the resolution pipeline.
type OutfitConcept struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Style       string        `json:"style"`
	Occasion    string        `json:"occasion"`
	Rationale   string        `json:"rationale,omitempty"`
	Items       []ConceptItem `json:"items"`
}

// ConceptItem is one garment/accessory slot in a concept.
type ConceptItem struct {
	Category    string   `json:"category"` // free text, standardized later
	Description string   `json:"description"`
	Color       string   `json:"color,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// SearchCriteria is derived from a ConceptItem once and never mutated.
type SearchCriteria struct {
	Query    string   `json:"query"`
	Category Category `json:"category"`
	Gender   string   `json:"gender,omitempty"`
	MinPrice float64  `json:"min_price,omitempty"`
	MaxPrice float64  `json:"max_price,omitempty"`
}

// ProductCandidate is an untrusted result from the shopping-search provider.
// Any field may be missing and must be defaulted at the boundary.
type ProductCandidate struct {
	ID       string  `json:"id,omitempty"`
	Title    string  `json:"title"`
	Brand    string  `json:"brand,omitempty"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
	Link     string  `json:"link,omitempty"`
	Source   string  `json:"source,omitempty"`
}

// OutfitItem is a resolved, user-facing product slot.
type OutfitItem struct {
	ProductID    string             `json:"product_id"`
	Name         string             `json:"name"`
	Brand        string             `json:"brand"`
	Category     Category           `json:"category"`
	Price        float64            `json:"price"`
	URL          string             `json:"url"`
	ImageURL     string             `json:"image_url"`
	Description  string             `json:"description,omitempty"`
	Color        string             `json:"color,omitempty"`
	IsFallback   bool               `json:"is_fallback"`
	Alternatives []ProductCandidate `json:"alternatives,omitempty"`
}

// OutfitStatus flags whether an outfit resolved cleanly or degraded.
type OutfitStatus string

const (
	OutfitStatusSuccess OutfitStatus = "success"
	OutfitStatusLimited OutfitStatus = "limited"
)

// Outfit is a fully assembled, priced outfit.
type Outfit struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Style        string             `json:"style,omitempty"`
	Occasion     string             `json:"occasion,omitempty"`
	Items        []OutfitItem       `json:"items"`
	TotalPrice   float64            `json:"total_price"`
	BrandDisplay string             `json:"brand_display,omitempty"`
	Status       OutfitStatus       `json:"status"`
	CollageImage string             `json:"collage_image,omitempty"` // base64, absent on renderer failure
	ImageMap     map[string]BoundingBox `json:"image_map,omitempty"`
}

// BoundingBox locates one item within a collage image.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RecomputeTotal recalculates TotalPrice from the item prices. Must be called
// after any item price mutation; TotalPrice is never carried stale.
func (o *Outfit) RecomputeTotal() {
	total := 0.0
	for _, it := range o.Items {
		total += it.Price
	}
	o.TotalPrice = math.Round(total*100) / 100
}

// FallbackCount returns how many items in the outfit are synthetic fallbacks.
func (o *Outfit) FallbackCount() int {
	n := 0
	for _, it := range o.Items {
		if it.IsFallback {
			n++
		}
	}
	return n
}

// RetailerDecision is the pure output of the retailer selector.
type RetailerDecision struct {
	Retailer    string  `json:"retailer"`
	DisplayName string  `json:"display_name"`
	Confidence  float64 `json:"confidence"` // in [0,1]
	Reasoning   string  `json:"reasoning"`
	Score       float64 `json:"score"`

	// Prompt and Style carry the originating request text so the URL builder
	// can detect themes without re-plumbing the request.
	Prompt string `json:"-"`
	Style  string `json:"-"`
}
