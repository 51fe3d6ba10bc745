package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dealgraph/dealgraph/internal/config"
	"github.com/dealgraph/dealgraph/internal/engine"
	"github.com/dealgraph/dealgraph/internal/extractor"
	"github.com/dealgraph/dealgraph/internal/graph"
	"github.com/dealgraph/dealgraph/internal/llm"
	"github.com/dealgraph/dealgraph/internal/logger"
	"github.com/dealgraph/dealgraph/internal/scraper"
	"github.com/dealgraph/dealgraph/internal/search"
)

// fetcherAdapter bridges the scraper fetchers to the engine's fetch
// surface.
type fetcherAdapter struct {
	fetcher scraper.Fetcher
}

func (a fetcherAdapter) Fetch(ctx context.Context, url string) (engine.PageContent, error) {
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return engine.PageContent{}, err
	}
	return engine.PageContent{URL: page.URL, HTML: page.HTML}, nil
}

// buildEngine wires the full pipeline: graph store, search clients,
// scraper, LLM extractor. The returned cleanup closes the browser and
// the database driver and must be called before exit.
func buildEngine(ctx context.Context, cfg config.Config) (*engine.Engine, func(context.Context), error) {
	if err := graph.Init(cfg.Neo4j); err != nil {
		return nil, nil, fmt.Errorf("connecting to neo4j: %w", err)
	}

	client, err := graph.Default()
	if err != nil {
		return nil, nil, err
	}

	store := graph.NewStore(client)
	if err := store.Bootstrap(ctx); err != nil {
		// Constraints are an optimization; queries still work without them.
		logger.Warn("schema bootstrap failed", "error", err)
	}

	primary, fallback, err := newSearchProviders(cfg.Search)
	if err != nil {
		_ = graph.Shutdown(ctx)
		return nil, nil, err
	}

	fetcher, err := scraper.NewFallbackFetcher(scraper.FetcherConfigFrom(cfg.Scrape))
	if err != nil {
		_ = graph.Shutdown(ctx)
		return nil, nil, fmt.Errorf("creating fetcher: %w", err)
	}

	provider, err := newLLMProvider(cfg.LLM)
	if err != nil {
		_ = fetcher.Close()
		_ = graph.Shutdown(ctx)
		return nil, nil, err
	}

	extCfg := extractor.DefaultConfig()
	if cfg.Scrape.MaxContentBytes > 0 {
		extCfg.MaxContentBytes = cfg.Scrape.MaxContentBytes
	}
	ext := extractor.New(provider, extCfg)

	eng := engine.New(store, primary, fallback, fetcherAdapter{fetcher: fetcher}, ext, engine.Config{
		NumResults:    cfg.Search.NumResults,
		MaxURLs:       cfg.Search.MaxURLs,
		Denylist:      search.DefaultDenylist,
		MaxConcurrent: cfg.Scrape.MaxConcurrentRequests,
		RequestDelay:  cfg.Scrape.RequestDelay,
	})

	cleanup := func(ctx context.Context) {
		if err := fetcher.Close(); err != nil {
			logger.Warn("closing fetcher", "error", err)
		}
		if err := graph.Shutdown(ctx); err != nil {
			logger.Warn("closing neo4j driver", "error", err)
		}
	}

	return eng, cleanup, nil
}

// newSearchProviders picks the primary and fallback search clients from
// whichever API keys are configured. Exa is preferred when both are set.
func newSearchProviders(cfg config.Search) (primary, fallback search.Provider, err error) {
	var providers []search.Provider
	if cfg.ExaAPIKey != "" {
		providers = append(providers, search.NewExaClient(cfg.ExaAPIKey))
	}
	if cfg.BraveAPIKey != "" {
		providers = append(providers, search.NewBraveClient(cfg.BraveAPIKey))
	}
	if len(providers) == 0 {
		return nil, nil, fmt.Errorf("no search API key configured (set EXA_API_KEY or BRAVE_SEARCH_API_KEY)")
	}
	primary = providers[0]
	if len(providers) > 1 {
		fallback = providers[1]
	}
	return primary, fallback, nil
}

// newLLMProvider resolves the extraction provider. An explicit provider
// wins; otherwise the provider is detected from the available API keys.
func newLLMProvider(cfg config.LLM) (llm.Provider, error) {
	name := cfg.Provider
	apiKey := cfg.APIKey

	if name == "" {
		detected, detectedKey := llm.DetectProvider()
		name = detected
		if apiKey == "" {
			apiKey = detectedKey
		}
	}
	if apiKey == "" {
		apiKey = providerEnvKey(name)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key for provider %q (set OPENAI_API_KEY or ANTHROPIC_API_KEY)", name)
	}

	pcfg := llm.DefaultProviderConfig()
	pcfg.APIKey = apiKey
	pcfg.Model = cfg.Model
	pcfg.BaseURL = cfg.BaseURL

	p, err := llm.NewProvider(name, pcfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("LLM provider ready", "provider", p.Name(), "model", cfg.Model)
	return p, nil
}

func providerEnvKey(name string) string {
	switch name {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}
