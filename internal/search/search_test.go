package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestFilterURLs_Denylist(t *testing.T) {
	results := []Result{
		{URL: "https://shop.example.com/laptop"},
		{URL: "https://www.youtube.com/watch?v=abc"},
		{URL: "https://deals.example.org/page"},
		{URL: "https://facebook.com/somepage"},
		{URL: "https://m.facebook.com/other"},
		{URL: "https://review.example.net/item"},
	}

	got := FilterURLs(results, DefaultDenylist, 5)
	want := []string{
		"https://shop.example.com/laptop",
		"https://deals.example.org/page",
		"https://review.example.net/item",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterURLs() = %v, want %v", got, want)
	}
}

func TestFilterURLs_LimitPreservesOrder(t *testing.T) {
	var results []Result
	for _, u := range []string{
		"https://a.example.com", "https://b.example.com", "https://c.example.com",
		"https://d.example.com", "https://e.example.com", "https://f.example.com",
	} {
		results = append(results, Result{URL: u})
	}

	got := FilterURLs(results, DefaultDenylist, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 URLs, got %d", len(got))
	}
	if got[0] != "https://a.example.com" || got[4] != "https://e.example.com" {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestFilterURLs_SixResultsOneDenied(t *testing.T) {
	results := []Result{
		{URL: "https://a.example.com"},
		{URL: "https://youtube.com/v"},
		{URL: "https://b.example.com"},
		{URL: "https://c.example.com"},
		{URL: "https://d.example.com"},
		{URL: "https://e.example.com"},
	}

	got := FilterURLs(results, DefaultDenylist, 5)
	want := []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
		"https://d.example.com",
		"https://e.example.com",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterURLs() = %v, want %v", got, want)
	}
}

func TestAugmentQuery(t *testing.T) {
	got := AugmentQuery("gaming laptop")
	want := "best deals for gaming laptop product information price comparison"
	if got != want {
		t.Errorf("AugmentQuery() = %q, want %q", got, want)
	}
}

func TestExaClient_Search(t *testing.T) {
	var gotReq exaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Laptop deals", "url": "https://shop.example.com", "text": "great deals"},
			},
		})
	}))
	defer srv.Close()

	c := NewExaClient("test-key")
	c.SetEndpoint(srv.URL)

	results, err := c.Search(context.Background(), "gaming laptop", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if gotReq.Query != "gaming laptop" || gotReq.NumResults != 10 {
		t.Errorf("unexpected request body: %+v", gotReq)
	}
	if len(results) != 1 || results[0].URL != "https://shop.example.com" {
		t.Errorf("unexpected results: %v", results)
	}
	if results[0].Description != "great deals" {
		t.Errorf("expected text mapped to description, got %q", results[0].Description)
	}
}

func TestExaClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewExaClient("bad-key")
	c.SetEndpoint(srv.URL)

	if _, err := c.Search(context.Background(), "q", 10); err == nil {
		t.Error("expected error for non-2xx status")
	}
}

func TestBraveClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Subscription-Token") != "brave-key" {
			t.Errorf("missing subscription token header")
		}
		if q := r.URL.Query().Get("q"); q != "gaming laptop" {
			t.Errorf("unexpected query param %q", q)
		}
		if count := r.URL.Query().Get("count"); count != "10" {
			t.Errorf("unexpected count param %q", count)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"web": map[string]any{
				"results": []map[string]any{
					{"title": "Deals", "url": "https://deals.example.com", "description": "cheap"},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewBraveClient("brave-key")
	c.SetEndpoint(srv.URL)

	results, err := c.Search(context.Background(), "gaming laptop", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 1 || results[0].URL != "https://deals.example.com" {
		t.Errorf("unexpected results: %v", results)
	}
}

func TestBraveClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewBraveClient("key")
	c.SetEndpoint(srv.URL)

	if _, err := c.Search(context.Background(), "q", 10); err == nil {
		t.Error("expected error for non-2xx status")
	}
}
