// Package engine orchestrates the search pipeline: graph cache lookup,
// web-search discovery, concurrent scrape+extract, and persistence.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/dealgraph/dealgraph/internal/logger"
	"github.com/dealgraph/dealgraph/internal/model"
	"github.com/dealgraph/dealgraph/internal/search"
)

// ProductStore is the persistence surface the engine drives.
type ProductStore interface {
	FindProducts(ctx context.Context, query string) ([]model.Product, error)
	SaveResults(ctx context.Context, query string, products []model.Product) error
}

// PageFetcher retrieves raw markup for a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (fetched PageContent, err error)
}

// PageContent mirrors the scraper result shape without importing it, so
// tests can fake the fetch layer with plain values.
type PageContent struct {
	URL  string
	HTML string
}

// ProductExtractor turns markup into products relevant to a query.
type ProductExtractor interface {
	Extract(ctx context.Context, html, pageURL, query string) ([]model.Product, error)
}

// Config holds engine settings.
type Config struct {
	// NumResults is how many results to request from the search API.
	NumResults int
	// MaxURLs caps how many candidate pages are scraped per run.
	MaxURLs int
	// Denylist lists domains excluded from discovery.
	Denylist []string
	// MaxConcurrent bounds the fetch+extract fan-out.
	MaxConcurrent int
	// RequestDelay is the pause before each page fetch is launched,
	// spacing out requests to scraped sites.
	RequestDelay time.Duration
}

// DefaultConfig returns the settings a production run uses.
func DefaultConfig() Config {
	return Config{
		NumResults:    10,
		MaxURLs:       5,
		Denylist:      search.DefaultDenylist,
		MaxConcurrent: 5,
		RequestDelay:  time.Second,
	}
}

// Engine is the search orchestrator.
type Engine struct {
	store     ProductStore
	primary   search.Provider
	fallback  search.Provider
	fetcher   PageFetcher
	extractor ProductExtractor
	config    Config
}

// New creates an engine. fallback may be nil when no secondary search
// client is configured.
func New(store ProductStore, primary, fallback search.Provider, fetcher PageFetcher, extractor ProductExtractor, cfg Config) *Engine {
	if cfg.NumResults < 1 {
		cfg.NumResults = DefaultConfig().NumResults
	}
	if cfg.MaxURLs < 1 {
		cfg.MaxURLs = DefaultConfig().MaxURLs
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.Denylist == nil {
		cfg.Denylist = search.DefaultDenylist
	}
	return &Engine{
		store:     store,
		primary:   primary,
		fallback:  fallback,
		fetcher:   fetcher,
		extractor: extractor,
		config:    cfg,
	}
}

// Search runs the full pipeline for a query. It never returns an error:
// every stage degrades to an empty or partial result, and the caller
// receives whatever products were found in memory even if persistence
// failed.
func (e *Engine) Search(ctx context.Context, query string) []model.Product {
	// Stage 1: cache lookup. A hit short-circuits discovery entirely.
	cached, err := e.store.FindProducts(ctx, query)
	if err != nil {
		logger.Warn("graph cache lookup failed", "query", query, "error", err)
	}
	if len(cached) > 0 {
		logger.Info("cache hit", "query", query, "products", len(cached))
		return cached
	}

	// Stage 2: discovery via the search API, with one fallback client.
	urls := e.discover(ctx, query)
	if len(urls) == 0 {
		logger.Info("no candidate URLs for query", "query", query)
		return []model.Product{}
	}

	// Stage 3: concurrent fetch+extract across candidate pages.
	products := e.scrapeAll(ctx, urls, query)

	// Stage 4: best-effort persistence. Failures never reach the caller.
	if len(products) > 0 {
		if err := e.store.SaveResults(ctx, query, products); err != nil {
			logger.Error("failed to persist products", "query", query, "error", err)
		}
	}

	return products
}

// discover queries the primary search client, falling back to the
// secondary on failure. Both failing yields an empty URL list.
func (e *Engine) discover(ctx context.Context, query string) []string {
	augmented := search.AugmentQuery(query)

	results, err := e.primary.Search(ctx, augmented, e.config.NumResults)
	if err != nil {
		logger.Warn("primary search failed",
			"provider", e.primary.Name(),
			"query", query,
			"error", err)

		if e.fallback == nil {
			return nil
		}
		results, err = e.fallback.Search(ctx, augmented, e.config.NumResults)
		if err != nil {
			logger.Warn("fallback search failed",
				"provider", e.fallback.Name(),
				"query", query,
				"error", err)
			return nil
		}
	}

	urls := search.FilterURLs(results, e.config.Denylist, e.config.MaxURLs)
	logger.Debug("discovery complete", "query", query, "candidates", len(urls))
	return urls
}

// scrapeAll fans fetch+extract out across the URLs with a bounded
// semaphore. Results aggregate in the original URL order regardless of
// completion order; URLs that fail or yield nothing contribute nothing.
func (e *Engine) scrapeAll(ctx context.Context, urls []string, query string) []model.Product {
	perURL := make([][]model.Product, len(urls))

	sem := make(chan struct{}, e.config.MaxConcurrent)
	var wg sync.WaitGroup

	for i, url := range urls {
		sem <- struct{}{}
		wg.Add(1)

		go func(idx int, pageURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			if e.config.RequestDelay > 0 {
				time.Sleep(e.config.RequestDelay)
			}

			perURL[idx] = e.scrapeOne(ctx, pageURL, query)
		}(i, url)
	}
	wg.Wait()

	var products []model.Product
	for _, batch := range perURL {
		products = append(products, batch...)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products
}

// scrapeOne fetches and extracts a single page. Any failure is local to
// the URL and yields an empty list.
func (e *Engine) scrapeOne(ctx context.Context, pageURL, query string) []model.Product {
	page, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Warn("page fetch failed", "url", pageURL, "error", err)
		return nil
	}
	if page.HTML == "" {
		return nil
	}

	products, err := e.extractor.Extract(ctx, page.HTML, pageURL, query)
	if err != nil {
		logger.Warn("extraction failed", "url", pageURL, "error", err)
		return nil
	}
	return products
}
