package scraper

import (
	"context"
	"fmt"

	"github.com/dealgraph/dealgraph/internal/logger"
)

// FallbackFetcher tries the fast static path first and falls back to a
// headless browser render when it fails.
type FallbackFetcher struct {
	static  Fetcher
	dynamic Fetcher
}

// NewFallbackFetcher creates the two-tier fetcher.
func NewFallbackFetcher(cfg FetcherConfig) (*FallbackFetcher, error) {
	dynamic, err := NewDynamicFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic fetcher: %w", err)
	}

	return &FallbackFetcher{
		static:  NewStaticFetcher(cfg),
		dynamic: dynamic,
	}, nil
}

// newFallbackFetcherFrom wires explicit tiers. Used by tests.
func newFallbackFetcherFrom(static, dynamic Fetcher) *FallbackFetcher {
	return &FallbackFetcher{static: static, dynamic: dynamic}
}

// Fetch attempts a static fetch; any failure falls through to the browser.
// Both tiers failing is reported as the dynamic tier's error.
func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (PageContent, error) {
	content, err := f.static.Fetch(ctx, url)
	if err == nil {
		return content, nil
	}

	logger.Debug("static fetch failed, falling back to browser", "url", url, "error", err)
	return f.dynamic.Fetch(ctx, url)
}

// Close releases all fetcher resources.
func (f *FallbackFetcher) Close() error {
	if err := f.static.Close(); err != nil {
		return err
	}
	return f.dynamic.Close()
}

// Type returns the fetcher type.
func (f *FallbackFetcher) Type() string {
	return "fallback"
}
