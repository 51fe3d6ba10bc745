// Package search provides external web-search API clients used to discover
// candidate product pages.
package search

import (
	"context"
	"net/url"
	"strings"
)

// Result is a single web search result.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Provider is the interface search backends implement.
type Provider interface {
	// Search executes a query and returns up to numResults results.
	Search(ctx context.Context, query string, numResults int) ([]Result, error)

	// Name returns the provider identifier (e.g. "exa", "brave").
	Name() string
}

// DefaultDenylist lists domains whose pages rarely carry usable product
// data (video and social platforms).
var DefaultDenylist = []string{
	"youtube.com",
	"facebook.com",
}

// FilterURLs drops results on denylisted domains and returns at most limit
// URLs, preserving result order.
func FilterURLs(results []Result, denylist []string, limit int) []string {
	urls := make([]string, 0, limit)
	for _, r := range results {
		if r.URL == "" || denied(r.URL, denylist) {
			continue
		}
		urls = append(urls, r.URL)
		if len(urls) >= limit {
			break
		}
	}
	return urls
}

func denied(rawURL string, denylist []string) bool {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.ToLower(host)
	for _, domain := range denylist {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// AugmentQuery frames the raw query as a deal and price-comparison search.
func AugmentQuery(query string) string {
	return "best deals for " + query + " product information price comparison"
}
