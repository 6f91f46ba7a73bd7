package outfit

import (
	"math"

	"github.com/lookbook-labs/stylist-cli/internal/model"
)

// categoryWeights apportion a total budget across standardized categories for
// pre-search price caps. Weights are per-item fractions of the budget, not an
// equal split: a dress carries far more of an outfit's spend than a belt.
var categoryWeights = map[model.Category]float64{
	model.CategoryDress:     0.40,
	model.CategoryOuterwear: 0.35,
	model.CategoryBottom:    0.30,
	model.CategoryTop:       0.25,
	model.CategoryShoes:     0.25,
	model.CategoryAccessory: 0.15,
}

// AllocateByCategory returns the max price cap for one item of the given
// category under the total budget. Zero when no budget is set.
func AllocateByCategory(budget float64, category model.Category) float64 {
	if budget <= 0 {
		return 0
	}
	weight, ok := categoryWeights[category]
	if !ok {
		weight = 0.25
	}
	return round2(budget * weight)
}

// ApplyBudget scales an outfit's item prices down proportionally when the
// total exceeds the budget. Pure: the input outfit is not mutated. A second
// application with the same budget is a no-op, and the scaled total never
// exceeds the budget beyond rounding drift.
func ApplyBudget(o model.Outfit, budget float64) model.Outfit {
	o.RecomputeTotal()
	if budget <= 0 || o.TotalPrice <= budget {
		return o
	}

	scale := budget / o.TotalPrice
	items := make([]model.OutfitItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].Price = round2(items[i].Price * scale)
	}
	o.Items = items
	// Total is the sum of the rounded prices, not the budget itself, so the
	// displayed breakdown always adds up.
	o.RecomputeTotal()
	return o
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
