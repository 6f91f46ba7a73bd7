package outfit

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbook-labs/stylist-cli/internal/catalog"
	"github.com/lookbook-labs/stylist-cli/internal/model"
	"github.com/lookbook-labs/stylist-cli/internal/resolver"
)

// fakeResolver resolves items from a canned map, optionally delaying or
// panicking on matching descriptions.
type fakeResolver struct {
	mu       sync.Mutex
	delayFor string
	panicFor string
	failFor  string
	calls    []resolver.Request
}

func (f *fakeResolver) Resolve(ctx context.Context, req resolver.Request) model.OutfitItem {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	desc := req.Item.Description
	if f.delayFor != "" && strings.Contains(desc, f.delayFor) {
		time.Sleep(30 * time.Millisecond)
	}
	if f.panicFor != "" && strings.Contains(desc, f.panicFor) {
		panic("resolver blew up")
	}

	category := catalog.StandardizeCategory(req.Item.Category, desc)
	item := model.OutfitItem{
		ProductID: "prod-" + desc,
		Name:      desc,
		Brand:     "TestBrand",
		Category:  category,
		Price:     40,
	}
	if f.failFor != "" && strings.Contains(desc, f.failFor) {
		item.IsFallback = true
		item.Brand = ""
	}
	return item
}

func testConcept(descriptions ...string) model.OutfitConcept {
	c := model.OutfitConcept{Name: "Test Look", Style: "casual"}
	for _, d := range descriptions {
		c.Items = append(c.Items, model.ConceptItem{Category: "top", Description: d})
	}
	return c
}

func TestResolveAllPreservesItemOrder(t *testing.T) {
	fr := &fakeResolver{delayFor: "alpha"}
	o := NewOrchestrator(fr, 4)

	outfits := o.ResolveAll(context.Background(),
		[]model.OutfitConcept{testConcept("alpha", "bravo", "charlie")},
		model.StyleRequest{Prompt: "weekend look"},
	)

	require.Len(t, outfits, 1)
	require.Len(t, outfits[0].Items, 3)
	assert.Equal(t, "alpha", outfits[0].Items[0].Name)
	assert.Equal(t, "bravo", outfits[0].Items[1].Name)
	assert.Equal(t, "charlie", outfits[0].Items[2].Name)
	assert.Equal(t, model.OutfitStatusSuccess, outfits[0].Status)
}

func TestResolveAllPanicIsolated(t *testing.T) {
	fr := &fakeResolver{panicFor: "bravo"}
	o := NewOrchestrator(fr, 4)

	outfits := o.ResolveAll(context.Background(),
		[]model.OutfitConcept{testConcept("alpha", "bravo", "charlie")},
		model.StyleRequest{},
	)

	require.Len(t, outfits, 1)
	items := outfits[0].Items
	require.Len(t, items, 3)
	assert.False(t, items[0].IsFallback)
	assert.True(t, items[1].IsFallback, "panicked item becomes a fallback")
	assert.False(t, items[2].IsFallback)
	assert.Greater(t, items[1].Price, 0.0)
}

func TestResolveAllFullyDegradedIsLimited(t *testing.T) {
	fr := &fakeResolver{failFor: ""}
	fr.failFor = "x" // every test description below contains x
	o := NewOrchestrator(fr, 2)

	outfits := o.ResolveAll(context.Background(),
		[]model.OutfitConcept{testConcept("x1", "x2")},
		model.StyleRequest{},
	)

	require.Len(t, outfits, 1)
	assert.Equal(t, model.OutfitStatusLimited, outfits[0].Status)
	assert.Equal(t, 2, outfits[0].FallbackCount())
}

func TestResolveAllEmptyConceptsPlaceholder(t *testing.T) {
	fr := &fakeResolver{}
	o := NewOrchestrator(fr, 2)

	outfits := o.ResolveAll(context.Background(), nil, model.StyleRequest{Prompt: "gala"})

	require.Len(t, outfits, 1)
	assert.Equal(t, "Everyday Essentials", outfits[0].Name)
	assert.Equal(t, model.OutfitStatusLimited, outfits[0].Status)
	assert.NotEmpty(t, outfits[0].Items)
	assert.Greater(t, outfits[0].TotalPrice, 0.0)
	assert.Empty(t, fr.calls)
}

func TestResolveAllSkipsItemlessConcepts(t *testing.T) {
	fr := &fakeResolver{}
	o := NewOrchestrator(fr, 2)

	outfits := o.ResolveAll(context.Background(),
		[]model.OutfitConcept{
			{Name: "Empty"},
			testConcept("alpha"),
		},
		model.StyleRequest{},
	)

	require.Len(t, outfits, 1)
	assert.Equal(t, "Test Look", outfits[0].Name)
}

func TestResolveAllPassesBudgetCap(t *testing.T) {
	fr := &fakeResolver{}
	o := NewOrchestrator(fr, 2)

	o.ResolveAll(context.Background(),
		[]model.OutfitConcept{testConcept("silk blouse")},
		model.StyleRequest{Budget: 400},
	)

	require.Len(t, fr.calls, 1)
	assert.Equal(t, 100.0, fr.calls[0].MaxPrice) // Top weight of 400
	assert.Equal(t, 400.0, fr.calls[0].Budget)
}

func TestBrandDisplay(t *testing.T) {
	items := []model.OutfitItem{
		{Brand: "Theory"},
		{Brand: "Theory"},
		{Brand: "Vince"},
		{Brand: ""},
		{Brand: "Coach"},
		{Brand: "Everlane"},
	}
	assert.Equal(t, "Theory · Vince · Coach", brandDisplay(items))
}
