package graph

import (
	"context"
	"fmt"

	"github.com/dealgraph/dealgraph/internal/logger"
)

// bootstrapStatements are idempotent: IF NOT EXISTS makes re-running the
// bootstrap on every startup safe.
var bootstrapStatements = []string{
	"CREATE CONSTRAINT product_url IF NOT EXISTS FOR (p:Product) REQUIRE p.url IS UNIQUE",
	"CREATE CONSTRAINT query_text IF NOT EXISTS FOR (q:Query) REQUIRE q.text IS UNIQUE",
	"CREATE CONSTRAINT feature_name IF NOT EXISTS FOR (f:Feature) REQUIRE f.name IS UNIQUE",
	"CREATE CONSTRAINT brand_name IF NOT EXISTS FOR (b:Brand) REQUIRE b.name IS UNIQUE",
	"CREATE CONSTRAINT category_name IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE",
	"CREATE INDEX product_name IF NOT EXISTS FOR (p:Product) ON (p.name)",
	"CREATE INDEX product_price IF NOT EXISTS FOR (p:Product) ON (p.price)",
	"CREATE INDEX product_deal_score IF NOT EXISTS FOR (p:Product) ON (p.dealScore)",
}

// Bootstrap creates the uniqueness constraints and indexes the store
// relies on.
func (s *Store) Bootstrap(ctx context.Context) error {
	for _, stmt := range bootstrapStatements {
		if _, err := s.exec.Execute(ctx, stmt, nil); err != nil {
			return fmt.Errorf("graph: bootstrap schema: %w", err)
		}
	}
	logger.Debug("graph schema bootstrapped", "statements", len(bootstrapStatements))
	return nil
}
