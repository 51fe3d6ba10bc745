package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// BraveClient queries the Brave Search API. It serves as the fallback when
// the primary provider fails.
type BraveClient struct {
	client   *resty.Client
	endpoint string
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// NewBraveClient creates a Brave search client.
func NewBraveClient(apiKey string) *BraveClient {
	client := resty.New().
		SetHeader("X-Subscription-Token", apiKey).
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	return &BraveClient{client: client, endpoint: braveEndpoint}
}

// SetEndpoint overrides the API endpoint. Used by tests.
func (c *BraveClient) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Search performs a web search via Brave.
func (c *BraveClient) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	var body braveResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("count", strconv.Itoa(numResults)).
		SetResult(&body).
		Get(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("brave search: status %d: %s", resp.StatusCode(), resp.String())
	}

	results := make([]Result, 0, len(body.Web.Results))
	for _, r := range body.Web.Results {
		results = append(results, Result{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
		})
	}
	return results, nil
}

// Name returns the provider identifier.
func (c *BraveClient) Name() string {
	return "brave"
}
