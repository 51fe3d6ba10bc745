package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dealgraph/dealgraph/internal/content"
	"github.com/dealgraph/dealgraph/internal/llm"
	"github.com/dealgraph/dealgraph/internal/logger"
	"github.com/dealgraph/dealgraph/internal/model"
)

// Config holds extractor settings.
type Config struct {
	MaxContentBytes int
	Temperature     float64
	MaxTokens       int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxContentBytes: 15000,
		Temperature:     0.2,
		MaxTokens:       4096,
	}
}

// Extractor performs LLM-based product extraction.
type Extractor struct {
	provider llm.Provider
	config   Config
}

// New creates a new Extractor.
func New(provider llm.Provider, cfg Config) *Extractor {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Extractor{provider: provider, config: cfg}
}

// Extract reduces the page markup, asks the model for products relevant
// to the query and parses the response. Model or parse failures return an
// error alongside an empty list; callers treat the URL as yielding no
// products rather than failing the whole run.
func (e *Extractor) Extract(ctx context.Context, html, pageURL, query string) ([]model.Product, error) {
	reduced, err := content.Reduce(html, e.config.MaxContentBytes)
	if err != nil {
		return nil, fmt.Errorf("reduce content: %w", err)
	}
	if strings.TrimSpace(reduced) == "" {
		return nil, nil
	}

	prompt := BuildExtractionPrompt(reduced, pageURL, query)
	logger.Debug("extraction prompt built",
		"url", pageURL,
		"content_size", len(reduced),
		"prompt_size", len(prompt))

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("model completion: %w", err)
	}

	products, err := ParseProducts(resp.Content, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	logger.Debug("extraction complete",
		"url", pageURL,
		"products", len(products),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)
	return products, nil
}

// wireProduct tolerates the shapes models actually emit: numbers or
// strings for price, numeric dealScore, loosely typed specs.
type wireProduct struct {
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	ImageURL    string          `json:"imageUrl"`
	Features    []string        `json:"features"`
	DealScore   float64         `json:"dealScore"`
	Specs       map[string]any  `json:"specs"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
}

// ParseProducts parses a model response into products. Markdown code
// fences around the JSON are tolerated. A response that is not a JSON
// array is an error.
func ParseProducts(response, pageURL string) ([]model.Product, error) {
	raw := StripCodeFence(response)

	var wire []wireProduct
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("response is not a JSON array: %w", err)
	}

	products := make([]model.Product, 0, len(wire))
	for _, w := range wire {
		p := model.Product{
			Name:        w.Name,
			Price:       priceString(w.Price),
			Description: w.Description,
			URL:         w.URL,
			ImageURL:    w.ImageURL,
			Features:    w.Features,
			DealScore:   clampScore(w.DealScore),
			Specs:       stringSpecs(w.Specs),
			Brand:       w.Brand,
			Category:    w.Category,
		}
		if p.URL == "" {
			p.URL = pageURL
		}
		products = append(products, p)
	}
	return products, nil
}

// StripCodeFence removes an optional markdown code fence wrapper
// (```json ... ``` or ``` ... ```) around the payload.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON" or empty).
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func priceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func stringSpecs(specs map[string]any) map[string]string {
	if len(specs) == 0 {
		return nil
	}
	out := make(map[string]string, len(specs))
	for k, v := range specs {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strings.TrimSuffix(fmt.Sprintf("%v", val), ".0")
		case bool:
			out[k] = fmt.Sprintf("%t", val)
		default:
			// Nested structures don't fit a flat specs map; skip them.
		}
	}
	return out
}
