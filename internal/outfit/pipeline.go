package outfit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lookbook-labs/stylist-cli/internal/cache"
	"github.com/lookbook-labs/stylist-cli/internal/model"
	"github.com/lookbook-labs/stylist-cli/pkg/collage"
	"github.com/lookbook-labs/stylist-cli/pkg/concepts"
)

// Pipeline turns a style request into fully priced outfits: concept
// generation, concurrent item resolution, budget scaling, and best-effort
// collage rendering. It degrades instead of failing: every Run returns a
// response with at least one outfit.
type Pipeline struct {
	generator    concepts.Generator
	orchestrator *Orchestrator
	cache        *cache.Service
	renderer     collage.Client // nil disables collage rendering
}

// NewPipeline assembles the pipeline. renderer may be nil.
func NewPipeline(g concepts.Generator, o *Orchestrator, c *cache.Service, renderer collage.Client) *Pipeline {
	return &Pipeline{
		generator:    g,
		orchestrator: o,
		cache:        c,
		renderer:     renderer,
	}
}

// Run executes the full pipeline for one request. Identical requests within
// the long cache window return the cached response with Cached set.
func (p *Pipeline) Run(ctx context.Context, req model.StyleRequest) *model.StyleResponse {
	start := time.Now()

	key := cache.Key("outfit", req.Prompt, req.Gender, req.Budget)
	for _, tier := range []cache.Tier{cache.TierLong, cache.TierShort} {
		if hit, ok := p.cache.Get(key, tier); ok {
			if resp, ok := hit.(*model.StyleResponse); ok {
				cached := *resp
				cached.Cached = true
				zap.L().Info("outfit response served from cache",
					zap.String("key", key),
					zap.String("tier", string(tier)),
				)
				return &cached
			}
		}
	}

	conceptList, err := p.generator.Generate(ctx, req)
	statusMessage := ""
	if err != nil {
		zap.L().Warn("concept generation failed, using placeholder concepts",
			zap.String("prompt", req.Prompt),
			zap.Error(err),
		)
		conceptList = placeholderConcepts(req)
		statusMessage = "Outfit ideas are limited right now; showing a versatile starting point."
	}

	outfits := p.orchestrator.ResolveAll(ctx, conceptList, req)

	for i := range outfits {
		outfits[i] = ApplyBudget(outfits[i], req.Budget)
	}

	if p.renderer != nil {
		for i := range outfits {
			p.renderCollage(ctx, &outfits[i])
		}
	}

	resp := &model.StyleResponse{
		Outfits:       outfits,
		Status:        responseStatus(outfits, err != nil),
		StatusMessage: statusMessage,
	}
	if resp.StatusMessage == "" {
		switch resp.Status {
		case model.StatusLimited:
			resp.StatusMessage = "Some items could not be sourced and were substituted with suggestions."
		case model.StatusError:
			resp.StatusMessage = "We could not reach our stylist services; showing suggested pieces only."
		}
	}

	// Degraded responses must not pin synthetic outfits for the full long
	// window; a limited result gets the short tier so a recovered provider is
	// retried soon, and an error result is not cached at all.
	switch resp.Status {
	case model.StatusSuccess:
		p.cache.Set(key, resp, cache.TierLong)
	case model.StatusLimited:
		p.cache.Set(key, resp, cache.TierShort)
	}

	zap.L().Info("pipeline run complete",
		zap.String("prompt", req.Prompt),
		zap.Int("outfits", len(outfits)),
		zap.String("status", string(resp.Status)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp
}

// renderCollage attaches a collage to the outfit when enough items carry real
// images. Renderer failures are logged and swallowed.
func (p *Pipeline) renderCollage(ctx context.Context, o *model.Outfit) {
	var items []collage.RenderItem
	for _, it := range o.Items {
		if it.ImageURL == "" {
			continue
		}
		items = append(items, collage.RenderItem{
			ImageURL: it.ImageURL,
			Category: strings.ToLower(string(it.Category)),
		})
	}
	if len(items) < 2 {
		return
	}

	rendered, err := p.renderer.Render(ctx, collage.RenderRequest{Items: items})
	if err != nil {
		zap.L().Warn("collage rendering failed, outfit ships without one",
			zap.String("outfit", o.Name),
			zap.Error(err),
		)
		return
	}
	o.CollageImage = rendered.Image
	o.ImageMap = rendered.Map
}

// responseStatus summarizes outfit-level degradation for the caller. Error
// means both concept generation and item resolution came up empty; the
// response still carries outfits, just wholly synthetic ones.
func responseStatus(outfits []model.Outfit, generationFailed bool) model.ResponseStatus {
	anyResolved := false
	for _, o := range outfits {
		if o.Status == model.OutfitStatusSuccess {
			anyResolved = true
			break
		}
	}
	switch {
	case generationFailed && !anyResolved:
		return model.StatusError
	case generationFailed || !allSuccess(outfits):
		return model.StatusLimited
	default:
		return model.StatusSuccess
	}
}

func allSuccess(outfits []model.Outfit) bool {
	for _, o := range outfits {
		if o.Status != model.OutfitStatusSuccess {
			return false
		}
	}
	return true
}

// placeholderConcepts stands in when concept generation is unavailable. The
// resolver still runs real searches against these, so the user gets shoppable
// items rather than an error page.
func placeholderConcepts(req model.StyleRequest) []model.OutfitConcept {
	style := req.Style
	if style == "" {
		style = "casual"
	}
	return []model.OutfitConcept{
		{
			Name:        "Everyday Essentials",
			Description: fmt.Sprintf("A versatile %s outfit for %s.", style, strings.TrimSpace(req.Prompt)),
			Style:       style,
			Items: []model.ConceptItem{
				{Category: "top", Description: "classic knit top", Keywords: []string{"knit", "top"}},
				{Category: "bottom", Description: "tailored trousers", Keywords: []string{"trousers"}},
				{Category: "shoes", Description: "leather flats", Keywords: []string{"flats"}},
			},
		},
	}
}
