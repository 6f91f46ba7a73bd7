package outfit

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lookbook-labs/stylist-cli/internal/catalog"
	"github.com/lookbook-labs/stylist-cli/internal/model"
	"github.com/lookbook-labs/stylist-cli/internal/resolver"
)

// ItemResolver resolves one concept item; satisfied by *resolver.Resolver.
type ItemResolver interface {
	Resolve(ctx context.Context, req resolver.Request) model.OutfitItem
}

// Orchestrator fans item resolution out across each concept's items with
// bounded concurrency and assembles the results into outfits.
type Orchestrator struct {
	resolver    ItemResolver
	maxInFlight int
}

// NewOrchestrator creates an orchestrator. maxInFlight bounds simultaneous
// provider calls; values <= 0 fall back to 6.
func NewOrchestrator(r ItemResolver, maxInFlight int) *Orchestrator {
	if maxInFlight <= 0 {
		maxInFlight = 6
	}
	return &Orchestrator{resolver: r, maxInFlight: maxInFlight}
}

// ResolveAll resolves every item of every concept concurrently and returns
// one outfit per concept, items in concept order. It never returns an error
// or an empty list: a concept whose items all degraded is flagged limited,
// and a wholly empty result is replaced by a canned placeholder outfit.
func (o *Orchestrator) ResolveAll(ctx context.Context, concepts []model.OutfitConcept, req model.StyleRequest) []model.Outfit {
	outfits := make([]model.Outfit, 0, len(concepts))

	for _, concept := range concepts {
		if len(concept.Items) == 0 {
			continue
		}
		outfits = append(outfits, o.resolveConcept(ctx, concept, req))
	}

	if totalItems(outfits) == 0 {
		zap.L().Warn("no concept produced any items, returning placeholder outfit",
			zap.String("prompt", req.Prompt))
		return []model.Outfit{placeholderOutfit(req)}
	}
	return outfits
}

func (o *Orchestrator) resolveConcept(ctx context.Context, concept model.OutfitConcept, req model.StyleRequest) model.Outfit {
	// Index-addressed results keep concept item order regardless of which
	// goroutine finishes first.
	items := make([]model.OutfitItem, len(concept.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxInFlight)

	for i, conceptItem := range concept.Items {
		g.Go(func() error {
			defer func() {
				// One panicking resolution must not sink its siblings.
				if r := recover(); r != nil {
					zap.L().Error("item resolution panicked, substituting fallback",
						zap.String("concept", concept.Name),
						zap.Int("index", i),
						zap.Any("panic", r),
					)
					items[i] = panicFallback(conceptItem, req)
				}
			}()

			category := catalog.StandardizeCategory(conceptItem.Category, conceptItem.Description)
			items[i] = o.resolver.Resolve(gctx, resolver.Request{
				Item:     conceptItem,
				Prompt:   req.Prompt,
				Style:    concept.Style,
				Gender:   req.Gender,
				Budget:   req.Budget,
				MaxPrice: AllocateByCategory(req.Budget, category),
			})
			return nil // failures are absorbed into fallback items, never propagated
		})
	}
	_ = g.Wait()

	resolved, fallbacks := 0, 0
	for _, it := range items {
		if it.IsFallback {
			fallbacks++
		} else {
			resolved++
		}
	}

	status := model.OutfitStatusSuccess
	if resolved == 0 {
		status = model.OutfitStatusLimited
		zap.L().Warn("concept fully degraded to fallbacks",
			zap.String("concept", concept.Name),
			zap.Int("items", len(items)),
		)
	}

	outfit := model.Outfit{
		ID:           uuid.New().String(),
		Name:         concept.Name,
		Description:  concept.Description,
		Style:        concept.Style,
		Occasion:     concept.Occasion,
		Items:        items,
		Status:       status,
		BrandDisplay: brandDisplay(items),
	}
	outfit.RecomputeTotal()

	zap.L().Info("concept resolved",
		zap.String("concept", concept.Name),
		zap.Int("resolved", resolved),
		zap.Int("fallbacks", fallbacks),
		zap.Float64("total_price", outfit.TotalPrice),
	)
	return outfit
}

// panicFallback is the last-resort item when even fallback synthesis blew up.
func panicFallback(item model.ConceptItem, req model.StyleRequest) model.OutfitItem {
	category := catalog.StandardizeCategory(item.Category, item.Description)
	return model.OutfitItem{
		ProductID:   "fallback-" + string(category),
		Name:        catalog.ArchetypeName(item.Description, category),
		Brand:       "Lookbook Essentials",
		Category:    category,
		Price:       catalog.DefaultPrice(category),
		ImageURL:    catalog.PlaceholderImage(category),
		Description: item.Description,
		Color:       item.Color,
		IsFallback:  true,
	}
}

// placeholderOutfit is the canned response when nothing at all resolved.
func placeholderOutfit(req model.StyleRequest) model.Outfit {
	items := []model.OutfitItem{
		placeholderItem(model.CategoryTop, "Classic Knit Top"),
		placeholderItem(model.CategoryBottom, "Tailored Trousers"),
		placeholderItem(model.CategoryShoes, "Leather Flats"),
	}
	o := model.Outfit{
		ID:          uuid.New().String(),
		Name:        "Everyday Essentials",
		Description: fmt.Sprintf("A versatile starting point while we could not source items for %q.", strings.TrimSpace(req.Prompt)),
		Items:       items,
		Status:      model.OutfitStatusLimited,
	}
	o.RecomputeTotal()
	return o
}

func placeholderItem(category model.Category, name string) model.OutfitItem {
	return model.OutfitItem{
		ProductID:  "placeholder-" + strings.ToLower(string(category)),
		Name:       name,
		Brand:      "Lookbook Essentials",
		Category:   category,
		Price:      catalog.DefaultPrice(category),
		ImageURL:   catalog.PlaceholderImage(category),
		IsFallback: true,
	}
}

// brandDisplay summarizes up to three distinct brands for outfit cards.
func brandDisplay(items []model.OutfitItem) string {
	seen := make(map[string]bool)
	var brands []string
	for _, it := range items {
		b := strings.TrimSpace(it.Brand)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		brands = append(brands, b)
		if len(brands) == 3 {
			break
		}
	}
	return strings.Join(brands, " · ")
}

func totalItems(outfits []model.Outfit) int {
	n := 0
	for _, o := range outfits {
		n += len(o.Items)
	}
	return n
}
