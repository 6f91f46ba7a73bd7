package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lookbook-labs/stylist-cli/internal/cache"
	"github.com/lookbook-labs/stylist-cli/internal/outfit"
	"github.com/lookbook-labs/stylist-cli/internal/resilience"
	"github.com/lookbook-labs/stylist-cli/internal/resolver"
	"github.com/lookbook-labs/stylist-cli/internal/retailer"
	"github.com/lookbook-labs/stylist-cli/internal/store"
	"github.com/lookbook-labs/stylist-cli/pkg/collage"
	"github.com/lookbook-labs/stylist-cli/pkg/concepts"
	"github.com/lookbook-labs/stylist-cli/pkg/shopsearch"
)

// env bundles the wired pipeline and its shared services.
type env struct {
	Pipeline *outfit.Pipeline
	Cache    *cache.Service
	Store    store.Store
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "stylist.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline wires every pipeline dependency from config. withStore
// controls whether run history persistence is opened.
func initPipeline(ctx context.Context, withStore bool) (*env, error) {
	cacheSvc := cache.NewWithTTLs(map[cache.Tier]time.Duration{
		cache.TierShort:  time.Duration(cfg.Cache.ShortTTLMins) * time.Minute,
		cache.TierMedium: time.Duration(cfg.Cache.MediumTTLMins) * time.Minute,
		cache.TierLong:   time.Duration(cfg.Cache.LongTTLMins) * time.Minute,
	})

	searchClient := shopsearch.NewClient(cfg.ShopSearch.Key,
		shopsearch.WithBaseURL(cfg.ShopSearch.BaseURL),
		shopsearch.WithRateLimit(cfg.ShopSearch.RateLimit),
		shopsearch.WithTimeout(time.Duration(cfg.ShopSearch.TimeoutSecs)*time.Second),
	)

	selector := retailer.NewSelector(cfg.Retailer)
	retry := resilience.FromConfig(cfg.Search.MaxAttempts, cfg.Search.BaseDelayMs, cfg.Search.JitterFraction)
	itemResolver := resolver.New(searchClient, cacheSvc, selector, retry)

	generator := concepts.NewGenerator(cfg.Anthropic.Key, concepts.WithModel(cfg.Anthropic.Model))

	var renderer collage.Client
	if cfg.Collage.BaseURL != "" {
		renderer = collage.NewClient(cfg.Collage.BaseURL)
	}

	orchestrator := outfit.NewOrchestrator(itemResolver, cfg.Search.MaxInFlight)
	pipeline := outfit.NewPipeline(generator, orchestrator, cacheSvc, renderer)

	e := &env{Pipeline: pipeline, Cache: cacheSvc}

	if withStore {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
		e.Store = st
	}

	return e, nil
}
