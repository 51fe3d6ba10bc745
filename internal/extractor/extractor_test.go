package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dealgraph/dealgraph/internal/llm"
)

// stubProvider returns a canned completion.
type stubProvider struct {
	response string
	err      error
	lastReq  llm.CompletionRequest
}

func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return llm.CompletionResponse{}, s.err
	}
	return llm.CompletionResponse{Content: s.response}, nil
}

func (s *stubProvider) Name() string { return "stub" }

const samplePage = `<html><body><main>` +
	`<div class="product">Gaming Laptop X1 - $999.99 - 16GB RAM, RTX 4060, great deal</div>` +
	`<div class="product">More product text to pass the main-content threshold. ` +
	`Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor ` +
	`incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud ` +
	`exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat. Duis aute ` +
	`irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat.</div>` +
	`</main></body></html>`

func TestExtract_ParsesProducts(t *testing.T) {
	provider := &stubProvider{response: `[
		{"name": "Gaming Laptop X1", "price": "999.99", "description": "fast",
		 "url": "https://shop.example.com/x1", "features": ["16GB RAM", "RTX 4060"],
		 "dealScore": 87, "brand": "Acme", "category": "laptops",
		 "specs": {"ram": "16GB", "weight": 2.1}}
	]`}
	e := New(provider, DefaultConfig())

	products, err := e.Extract(context.Background(), samplePage, "https://shop.example.com", "gaming laptop")
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}

	p := products[0]
	if p.Name != "Gaming Laptop X1" || p.Price != "999.99" || p.DealScore != 87 {
		t.Errorf("unexpected product: %+v", p)
	}
	if len(p.Features) != 2 {
		t.Errorf("expected 2 features, got %v", p.Features)
	}
	if p.Specs["ram"] != "16GB" {
		t.Errorf("expected string spec preserved, got %v", p.Specs)
	}
}

func TestExtract_PromptContainsQueryAndURL(t *testing.T) {
	provider := &stubProvider{response: `[]`}
	e := New(provider, DefaultConfig())

	_, err := e.Extract(context.Background(), samplePage, "https://shop.example.com/page", "gaming laptop")
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	var userPrompt string
	for _, m := range provider.lastReq.Messages {
		if m.Role == llm.RoleUser {
			userPrompt = m.Content
		}
	}
	if !strings.Contains(userPrompt, `"gaming laptop"`) {
		t.Error("prompt missing query")
	}
	if !strings.Contains(userPrompt, "https://shop.example.com/page") {
		t.Error("prompt missing page URL")
	}
	if !strings.Contains(userPrompt, "dealScore") {
		t.Error("prompt missing schema description")
	}
}

func TestExtract_ModelFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("model unavailable")}
	e := New(provider, DefaultConfig())

	products, err := e.Extract(context.Background(), samplePage, "https://shop.example.com", "laptop")
	if err == nil {
		t.Error("expected error for model failure")
	}
	if len(products) != 0 {
		t.Errorf("expected no products, got %v", products)
	}
}

func TestExtract_UnparseableResponse(t *testing.T) {
	provider := &stubProvider{response: "I could not find any products, sorry!"}
	e := New(provider, DefaultConfig())

	products, err := e.Extract(context.Background(), samplePage, "https://shop.example.com", "laptop")
	if err == nil {
		t.Error("expected error for unparseable response")
	}
	if len(products) != 0 {
		t.Errorf("expected no products, got %v", products)
	}
}

func TestParseProducts_CodeFencedJSON(t *testing.T) {
	response := "```json\n[{\"name\": \"Mouse\", \"price\": 29.99}]\n```"

	products, err := ParseProducts(response, "https://shop.example.com")
	if err != nil {
		t.Fatalf("ParseProducts() error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Price != "29.99" {
		t.Errorf("expected numeric price coerced to string, got %q", products[0].Price)
	}
}

func TestParseProducts_BareFence(t *testing.T) {
	response := "```\n[{\"name\": \"Mouse\"}]\n```"

	products, err := ParseProducts(response, "https://shop.example.com")
	if err != nil {
		t.Fatalf("ParseProducts() error: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("expected 1 product, got %d", len(products))
	}
}

func TestParseProducts_FallsBackToPageURL(t *testing.T) {
	products, err := ParseProducts(`[{"name": "Mouse"}]`, "https://shop.example.com/mice")
	if err != nil {
		t.Fatalf("ParseProducts() error: %v", err)
	}
	if products[0].URL != "https://shop.example.com/mice" {
		t.Errorf("expected page URL fallback, got %q", products[0].URL)
	}
}

func TestParseProducts_ClampsDealScore(t *testing.T) {
	products, err := ParseProducts(`[{"name": "A", "dealScore": 250}, {"name": "B", "dealScore": -10}]`, "u")
	if err != nil {
		t.Fatalf("ParseProducts() error: %v", err)
	}
	if products[0].DealScore != 100 {
		t.Errorf("expected clamp to 100, got %v", products[0].DealScore)
	}
	if products[1].DealScore != 0 {
		t.Errorf("expected clamp to 0, got %v", products[1].DealScore)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `[1]`, `[1]`},
		{"json fence", "```json\n[1]\n```", `[1]`},
		{"bare fence", "```\n[1]\n```", `[1]`},
		{"surrounding whitespace", "  \n```json\n[1]\n```\n  ", `[1]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFence(tc.in); got != tc.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
