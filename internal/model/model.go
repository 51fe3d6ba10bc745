// Package model holds the domain types shared across dealgraph components.
package model

import "time"

// Product is a single product offer discovered by a search run.
// URL is the identity: persisting the same URL twice updates the
// existing graph node rather than creating a duplicate.
type Product struct {
	Name        string            `json:"name"`
	Price       string            `json:"price"`
	Description string            `json:"description"`
	URL         string            `json:"url"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Features    []string          `json:"features,omitempty"`
	DealScore   float64           `json:"dealScore"`
	Specs       map[string]string `json:"specs,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Category    string            `json:"category,omitempty"`
	LastUpdated time.Time         `json:"lastUpdated,omitempty"`
}
