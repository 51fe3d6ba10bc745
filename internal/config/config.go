// Package config materializes dealgraph configuration from viper.
package config

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Neo4j holds graph database connection settings.
type Neo4j struct {
	URI      string
	Username string
	Password string
}

// LLM holds language model provider settings.
type LLM struct {
	Provider string // "openai" or "anthropic"
	Model    string
	APIKey   string
	BaseURL  string
}

// Search holds external search API settings.
type Search struct {
	ExaAPIKey   string
	BraveAPIKey string
	NumResults  int
	MaxURLs     int
}

// Scrape holds fetching and content-reduction settings.
type Scrape struct {
	UserAgent             string
	RequestDelay          time.Duration
	MaxConcurrentRequests int
	StaticTimeout         time.Duration
	DynamicTimeout        time.Duration
	SettleDelay           time.Duration
	MaxContentBytes       int
}

// Server holds HTTP server settings.
type Server struct {
	Addr string
}

// Config is the root configuration for dealgraph.
type Config struct {
	Neo4j  Neo4j
	LLM    LLM
	Search Search
	Scrape Scrape
	Server Server
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "password")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "")

	v.SetDefault("search.num_results", 10)
	v.SetDefault("search.max_urls", 5)

	v.SetDefault("scrape.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36")
	v.SetDefault("scrape.request_delay", time.Second)
	v.SetDefault("scrape.max_concurrent_requests", 5)
	v.SetDefault("scrape.static_timeout", 10*time.Second)
	v.SetDefault("scrape.dynamic_timeout", 30*time.Second)
	v.SetDefault("scrape.settle_delay", 2*time.Second)
	v.SetDefault("scrape.max_content_size", "15KB")

	v.SetDefault("server.addr", ":8080")
}

// Load builds a Config from the given viper instance.
func Load(v *viper.Viper) (Config, error) {
	maxContent, err := parseSize(v.GetString("scrape.max_content_size"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid scrape.max_content_size: %w", err)
	}

	cfg := Config{
		Neo4j: Neo4j{
			URI:      v.GetString("neo4j.uri"),
			Username: v.GetString("neo4j.username"),
			Password: v.GetString("neo4j.password"),
		},
		LLM: LLM{
			Provider: v.GetString("llm.provider"),
			Model:    v.GetString("llm.model"),
			APIKey:   v.GetString("llm.api_key"),
			BaseURL:  v.GetString("llm.base_url"),
		},
		Search: Search{
			ExaAPIKey:   v.GetString("search.exa_api_key"),
			BraveAPIKey: v.GetString("search.brave_api_key"),
			NumResults:  v.GetInt("search.num_results"),
			MaxURLs:     v.GetInt("search.max_urls"),
		},
		Scrape: Scrape{
			UserAgent:             v.GetString("scrape.user_agent"),
			RequestDelay:          v.GetDuration("scrape.request_delay"),
			MaxConcurrentRequests: v.GetInt("scrape.max_concurrent_requests"),
			StaticTimeout:         v.GetDuration("scrape.static_timeout"),
			DynamicTimeout:        v.GetDuration("scrape.dynamic_timeout"),
			SettleDelay:           v.GetDuration("scrape.settle_delay"),
			MaxContentBytes:       maxContent,
		},
		Server: Server{
			Addr: v.GetString("server.addr"),
		},
	}

	if cfg.Search.NumResults < 1 {
		cfg.Search.NumResults = 10
	}
	if cfg.Search.MaxURLs < 1 {
		cfg.Search.MaxURLs = 5
	}
	if cfg.Scrape.MaxConcurrentRequests < 1 {
		cfg.Scrape.MaxConcurrentRequests = 1
	}

	return cfg, nil
}

// parseSize parses a human-readable byte size ("15KB", "1MB", "0").
func parseSize(s string) (int, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
