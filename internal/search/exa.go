package search

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const exaEndpoint = "https://api.exa.ai/search"

// ExaClient queries the Exa search API.
type ExaClient struct {
	client   *resty.Client
	endpoint string
}

type exaRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
}

type exaResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

// NewExaClient creates an Exa search client.
func NewExaClient(apiKey string) *ExaClient {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &ExaClient{client: client, endpoint: exaEndpoint}
}

// SetEndpoint overrides the API endpoint. Used by tests.
func (c *ExaClient) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Search performs a web search via Exa.
func (c *ExaClient) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	var body exaResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(exaRequest{Query: query, NumResults: numResults}).
		SetResult(&body).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("exa search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("exa search: status %d: %s", resp.StatusCode(), resp.String())
	}

	results := make([]Result, 0, len(body.Results))
	for _, r := range body.Results {
		results = append(results, Result{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Text,
		})
	}
	return results, nil
}

// Name returns the provider identifier.
func (c *ExaClient) Name() string {
	return "exa"
}
