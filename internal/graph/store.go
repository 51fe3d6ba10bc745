package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealgraph/dealgraph/internal/logger"
	"github.com/dealgraph/dealgraph/internal/model"
)

// Executor is the query execution primitive the store is built on.
// *Client implements it; tests substitute a fake.
type Executor interface {
	Execute(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
}

// Store exposes typed operations over the product knowledge graph.
type Store struct {
	exec Executor
}

// NewStore creates a store backed by the given executor.
func NewStore(exec Executor) *Store {
	return &Store{exec: exec}
}

const findProductsReturn = `
RETURN p.name AS name,
       p.price AS price,
       p.description AS description,
       p.url AS url,
       p.imageUrl AS imageUrl,
       p.brand AS brand,
       p.category AS category,
       p.dealScore AS dealScore,
       p.lastUpdated AS lastUpdated
ORDER BY p.dealScore DESC
LIMIT 10`

// FindProducts looks up cached products matching the query. The query is
// lower-cased and split on whitespace; a product matches when any keyword
// is a substring of its lower-cased name or description. Results come back
// ordered by dealScore descending, capped at 10. Tie order between equal
// scores is up to the database and is not stable.
func (s *Store) FindProducts(ctx context.Context, query string) ([]model.Product, error) {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return nil, nil
	}

	where, params := keywordFilter(keywords)
	cypher := "MATCH (p:Product)\nWHERE " + where + findProductsReturn

	rows, err := s.exec.Execute(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("graph: find products: %w", err)
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productFromRow(row))
	}
	return products, nil
}

// keywordFilter builds the disjunctive WHERE clause and its parameters.
func keywordFilter(keywords []string) (string, map[string]any) {
	conditions := make([]string, 0, len(keywords))
	params := make(map[string]any, len(keywords))
	for i, kw := range keywords {
		name := fmt.Sprintf("keyword%d", i)
		conditions = append(conditions,
			fmt.Sprintf("toLower(p.name) CONTAINS $%s OR toLower(p.description) CONTAINS $%s", name, name))
		params[name] = kw
	}
	return strings.Join(conditions, " OR "), params
}

// productFromRow maps a result row onto a Product. The row shape is fixed
// by findProductsReturn, so each column is read directly rather than
// through reflection.
func productFromRow(row map[string]any) model.Product {
	return model.Product{
		Name:        rowString(row, "name"),
		Price:       rowString(row, "price"),
		Description: rowString(row, "description"),
		URL:         rowString(row, "url"),
		ImageURL:    rowString(row, "imageUrl"),
		Brand:       rowString(row, "brand"),
		Category:    rowString(row, "category"),
		DealScore:   rowFloat(row, "dealScore"),
		LastUpdated: rowTime(row, "lastUpdated"),
	}
}

func rowString(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return ""
	}
}

func rowFloat(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func rowTime(row map[string]any, key string) time.Time {
	ms, ok := row[key].(int64)
	if !ok || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

const mergeQueryCypher = `MERGE (q:Query {text: $text})
RETURN q.text AS text`

const mergeProductCypher = `MERGE (p:Product {url: $url})
SET p.name = $name,
    p.price = $price,
    p.description = $description,
    p.imageUrl = $imageUrl,
    p.brand = $brand,
    p.category = $category,
    p.dealScore = $dealScore,
    p.lastUpdated = timestamp()
WITH p
MATCH (q:Query {text: $queryText})
MERGE (q)-[:FOUND]->(p)
RETURN p.url AS url`

const mergeFeatureCypher = `MATCH (p:Product {url: $url})
MERGE (f:Feature {name: $name})
MERGE (p)-[:HAS_FEATURE]->(f)`

const mergeBrandCypher = `MATCH (p:Product {url: $url})
MERGE (b:Brand {name: $name})
MERGE (p)-[:HAS_BRAND]->(b)`

const mergeCategoryCypher = `MATCH (p:Product {url: $url})
MERGE (c:Category {name: $name})
MERGE (p)-[:IN_CATEGORY]->(c)`

// SaveResults records the products a query run discovered. Each product is
// merged by URL (scalars overwritten, lastUpdated refreshed) and linked
// from the Query node; features, brand and category merge to shared nodes.
// The merges for one product do not share a transaction: a failure partway
// can leave a product without some of its edges.
func (s *Store) SaveResults(ctx context.Context, query string, products []model.Product) error {
	if _, err := s.exec.Execute(ctx, mergeQueryCypher, map[string]any{"text": query}); err != nil {
		return fmt.Errorf("graph: merge query node: %w", err)
	}

	for _, p := range products {
		if p.URL == "" {
			logger.Warn("skipping product without URL", "name", p.Name)
			continue
		}

		_, err := s.exec.Execute(ctx, mergeProductCypher, map[string]any{
			"url":         p.URL,
			"name":        p.Name,
			"price":       p.Price,
			"description": p.Description,
			"imageUrl":    p.ImageURL,
			"brand":       p.Brand,
			"category":    p.Category,
			"dealScore":   p.DealScore,
			"queryText":   query,
		})
		if err != nil {
			return fmt.Errorf("graph: merge product %s: %w", p.URL, err)
		}

		for _, feature := range dedupe(p.Features) {
			_, err := s.exec.Execute(ctx, mergeFeatureCypher, map[string]any{
				"url":  p.URL,
				"name": feature,
			})
			if err != nil {
				return fmt.Errorf("graph: merge feature %q: %w", feature, err)
			}
		}

		if p.Brand != "" {
			if _, err := s.exec.Execute(ctx, mergeBrandCypher, map[string]any{
				"url":  p.URL,
				"name": p.Brand,
			}); err != nil {
				return fmt.Errorf("graph: merge brand %q: %w", p.Brand, err)
			}
		}

		if p.Category != "" {
			if _, err := s.exec.Execute(ctx, mergeCategoryCypher, map[string]any{
				"url":  p.URL,
				"name": p.Category,
			}); err != nil {
				return fmt.Errorf("graph: merge category %q: %w", p.Category, err)
			}
		}
	}

	return nil
}

// dedupe removes duplicate strings, preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
