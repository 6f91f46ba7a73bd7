package retailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoose_DefaultIsNordstrom(t *testing.T) {
	s := NewSelector(Rules{})
	d := s.Choose("something to wear to dinner", "classic", 300, "Madewell", "Top")
	assert.Equal(t, RetailerNordstrom, d.Retailer)
	assert.Equal(t, 0.9, d.Confidence)
	assert.Positive(t, d.Score)
}

func TestChoose_LuxuryEveningScenario(t *testing.T) {
	s := NewSelector(Rules{})
	d := s.Choose("luxury designer evening gala", "", 1200, "Saint Laurent", "Dress")
	assert.Equal(t, RetailerNordstrom, d.Retailer)
	assert.Equal(t, 0.9, d.Confidence)
	assert.Positive(t, d.Score)
}

func TestChoose_AthleticException(t *testing.T) {
	s := NewSelector(Rules{})
	d := s.Choose("gym workout athletic", "", 150, "Alo Yoga", "Top")
	assert.Equal(t, RetailerAmazon, d.Retailer)
	assert.Equal(t, 0.8, d.Confidence)
}

func TestChoose_AthleticBrandWithoutKeywordsStaysDefault(t *testing.T) {
	s := NewSelector(Rules{})
	d := s.Choose("dinner party outfit", "", 150, "Nike", "Shoes")
	assert.Equal(t, RetailerNordstrom, d.Retailer)
}

func TestChoose_UltraBudgetException(t *testing.T) {
	s := NewSelector(Rules{})
	d := s.Choose("cheap affordable everyday looks", "", 80, "Shein", "Top")
	assert.Equal(t, RetailerAmazon, d.Retailer)
	assert.Equal(t, 0.7, d.Confidence)
}

func TestChoose_UltraBudgetNeedsAllThreeSignals(t *testing.T) {
	s := NewSelector(Rules{})

	// Budget >= 100 blocks the exception.
	d := s.Choose("cheap affordable looks", "", 150, "Shein", "Top")
	assert.Equal(t, RetailerNordstrom, d.Retailer)

	// No budget keywords in the prompt blocks it too.
	d = s.Choose("date night outfit", "", 80, "Shein", "Top")
	assert.Equal(t, RetailerNordstrom, d.Retailer)
}

func TestChoose_ExcludedBrandShortCircuits(t *testing.T) {
	s := NewSelector(Rules{
		ExcludedBrands: []string{"supreme"},
		// Make supreme also look athletic; exclusion has higher priority.
		AthleticBrands: []string{"supreme"},
	})
	d := s.Choose("gym workout athletic", "", 150, "Supreme", "Top")
	assert.Equal(t, RetailerNordstrom, d.Retailer)
	assert.Equal(t, 0.9, d.Confidence)
}

func TestChoose_CaseInsensitiveMatching(t *testing.T) {
	s := NewSelector(Rules{})
	d := s.Choose("GYM WORKOUT ATHLETIC", "", 150, "LULULEMON", "Top")
	assert.Equal(t, RetailerAmazon, d.Retailer)
}

func TestChoose_Deterministic(t *testing.T) {
	s := NewSelector(Rules{})
	a := s.Choose("luxury designer evening gala", "elegant", 1200, "Saint Laurent", "Dress")
	b := s.Choose("luxury designer evening gala", "elegant", 1200, "Saint Laurent", "Dress")
	assert.Equal(t, a, b)
}

func TestChoose_TotalOnEmptyInputs(t *testing.T) {
	s := NewSelector(Rules{})
	d := s.Choose("", "", 0, "", "")
	assert.Equal(t, RetailerNordstrom, d.Retailer)
	assert.Equal(t, 0.9, d.Confidence)
}

func TestSourceAllowed(t *testing.T) {
	assert.True(t, SourceAllowed(RetailerNordstrom, "Nordstrom"))
	assert.True(t, SourceAllowed(RetailerNordstrom, "Nordstrom Rack"))
	assert.True(t, SourceAllowed(RetailerAmazon, "Amazon.com - Seller"))
	assert.False(t, SourceAllowed(RetailerNordstrom, "Walmart"))
	assert.False(t, SourceAllowed(RetailerNordstrom, ""))
	assert.False(t, SourceAllowed("unknown", "Nordstrom"))
}
