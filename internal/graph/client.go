// Package graph wraps the Neo4j driver behind a small execution primitive
// and typed store operations for the product knowledge graph.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dealgraph/dealgraph/internal/config"
	"github.com/dealgraph/dealgraph/internal/logger"
)

// ErrNotInitialized is returned when the graph connection was never
// established, or was shut down. It is distinct from transient query
// errors so operators can tell configuration problems from network ones.
var ErrNotInitialized = errors.New("graph: connection not initialized")

// Client wraps a Neo4j driver. A logical session is acquired per Execute
// call; the driver itself is safe for concurrent use.
type Client struct {
	driver neo4j.DriverWithContext
}

var (
	defaultClient *Client
	defaultMu     sync.Mutex
)

// Init establishes the process-wide default client. Calling Init again
// after Shutdown re-initializes the connection.
func Init(cfg config.Neo4j) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient != nil {
		return nil
	}

	c, err := NewClient(cfg)
	if err != nil {
		return err
	}
	defaultClient = c
	return nil
}

// Default returns the process-wide client established by Init.
func Default() (*Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient == nil {
		return nil, ErrNotInitialized
	}
	return defaultClient, nil
}

// Shutdown closes the default client. A subsequent Init re-establishes it.
func Shutdown(ctx context.Context) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient == nil {
		return nil
	}
	err := defaultClient.Close(ctx)
	defaultClient = nil
	return err
}

// NewClient creates a client with its own driver. Most callers should use
// Init/Default; NewClient exists for tests and embedding.
func NewClient(cfg config.Neo4j) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("graph: create driver: %w", err)
	}

	logger.Debug("graph client created", "uri", cfg.URI)
	return &Client{driver: driver}, nil
}

// Close releases the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// VerifyConnectivity checks that the database is reachable.
func (c *Client) VerifyConnectivity(ctx context.Context) error {
	if c.driver == nil {
		return ErrNotInitialized
	}
	return c.driver.VerifyConnectivity(ctx)
}

// Execute runs a parameterized Cypher query in a fresh session and returns
// the rows keyed by column alias. Driver-native values (nodes,
// relationships, nested lists and maps) are normalized to plain Go values.
func (c *Client) Execute(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	if c.driver == nil {
		return nil, ErrNotInitialized
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("graph: run query: %w", err)
	}

	var rows []map[string]any
	for result.Next(ctx) {
		record := result.Record()
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = normalizeValue(record.Values[i])
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("graph: consume result: %w", err)
	}

	return rows, nil
}
