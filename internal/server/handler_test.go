package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dealgraph/dealgraph/internal/model"
)

type stubSearcher struct {
	results  []model.Product
	gotQuery string
	calls    int
}

func (s *stubSearcher) Search(_ context.Context, query string) []model.Product {
	s.calls++
	s.gotQuery = query
	return s.results
}

func postSearch(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSearchHandler_Success(t *testing.T) {
	searcher := &stubSearcher{results: []model.Product{
		{Name: "Gaming Laptop", URL: "https://shop.example.com/laptop", DealScore: 90},
	}}
	handler := NewSearchHandler(searcher)

	rec := postSearch(t, handler, `{"query": "gaming laptop"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if searcher.gotQuery != "gaming laptop" {
		t.Errorf("unexpected query %q", searcher.gotQuery)
	}

	var resp SearchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Name != "Gaming Laptop" {
		t.Errorf("unexpected results: %v", resp.Results)
	}
}

func TestSearchHandler_EmptyResults(t *testing.T) {
	handler := NewSearchHandler(&stubSearcher{results: []model.Product{}})

	rec := postSearch(t, handler, `{"query": "nothing"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"results":[]`) {
		t.Errorf("expected empty results array, got %s", rec.Body.String())
	}
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	searcher := &stubSearcher{}
	handler := NewSearchHandler(searcher)

	cases := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"not json", `not json`},
		{"missing field", `{}`},
		{"empty query", `{"query": ""}`},
		{"too short", `{"query": "a"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postSearch(t, handler, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("expected error message")
			}
		})
	}

	if searcher.calls != 0 {
		t.Errorf("searcher should not run for invalid requests, ran %d times", searcher.calls)
	}
}

func TestServer_Routes(t *testing.T) {
	srv := New(":0", &stubSearcher{results: []model.Product{}})

	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", resp.StatusCode)
	}

	resp2, err := http.Post(ts.URL+"/api/search", "application/json", strings.NewReader(`{"query":"mouse"}`))
	if err != nil {
		t.Fatalf("search request: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /api/search, got %d", resp2.StatusCode)
	}
}
