package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/dealgraph/dealgraph/internal/config"
)

func resetDefault() {
	defaultMu.Lock()
	defaultClient = nil
	defaultMu.Unlock()
}

func TestDefault_BeforeInit(t *testing.T) {
	resetDefault()

	if _, err := Default(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestInitShutdown_Lifecycle(t *testing.T) {
	resetDefault()
	t.Cleanup(resetDefault)

	cfg := config.Neo4j{URI: "bolt://localhost:7687", Username: "neo4j", Password: "password"}

	// NewDriverWithContext does not dial, so Init succeeds without a server.
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	c, err := Default()
	if err != nil {
		t.Fatalf("Default() after Init error: %v", err)
	}
	if c == nil {
		t.Fatal("Default() returned nil client")
	}

	// Init is idempotent while a client exists.
	if err := Init(cfg); err != nil {
		t.Errorf("second Init() error: %v", err)
	}
	c2, _ := Default()
	if c2 != c {
		t.Error("second Init() should keep the existing client")
	}

	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
	if _, err := Default(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized after Shutdown, got %v", err)
	}

	// Re-initialization after teardown.
	if err := Init(cfg); err != nil {
		t.Errorf("Init() after Shutdown error: %v", err)
	}
	if _, err := Default(); err != nil {
		t.Errorf("Default() after re-Init error: %v", err)
	}
	_ = Shutdown(context.Background())
}

func TestShutdown_WithoutInit(t *testing.T) {
	resetDefault()

	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on uninitialized state should be a no-op, got %v", err)
	}
}

func TestExecute_NilDriver(t *testing.T) {
	c := &Client{}
	if _, err := c.Execute(context.Background(), "RETURN 1", nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestBadURI(t *testing.T) {
	_, err := NewClient(config.Neo4j{URI: "://not-a-uri"})
	if err == nil {
		t.Error("expected error for malformed URI")
	}
}
