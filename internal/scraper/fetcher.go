// Package scraper handles product page fetching.
package scraper

import (
	"context"
	"time"

	"github.com/dealgraph/dealgraph/internal/config"
)

// PageContent represents fetched page data.
type PageContent struct {
	URL        string
	HTML       string
	StatusCode int
	FetchedAt  time.Time
}

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page markup from a URL.
	Fetch(ctx context.Context, url string) (PageContent, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns "static", "dynamic" or "fallback".
	Type() string
}

// FetcherConfig holds common fetcher configuration.
type FetcherConfig struct {
	UserAgent      string
	StaticTimeout  time.Duration
	DynamicTimeout time.Duration
	SettleDelay    time.Duration
}

// DefaultFetcherConfig returns sensible defaults: a fast static path and a
// patient browser path with time for dynamic content to settle.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		UserAgent:      "dealgraph/1.0",
		StaticTimeout:  10 * time.Second,
		DynamicTimeout: 30 * time.Second,
		SettleDelay:    2 * time.Second,
	}
}

// FetcherConfigFrom maps application scrape settings onto fetcher config.
func FetcherConfigFrom(cfg config.Scrape) FetcherConfig {
	fc := DefaultFetcherConfig()
	if cfg.UserAgent != "" {
		fc.UserAgent = cfg.UserAgent
	}
	if cfg.StaticTimeout > 0 {
		fc.StaticTimeout = cfg.StaticTimeout
	}
	if cfg.DynamicTimeout > 0 {
		fc.DynamicTimeout = cfg.DynamicTimeout
	}
	if cfg.SettleDelay > 0 {
		fc.SettleDelay = cfg.SettleDelay
	}
	return fc
}
