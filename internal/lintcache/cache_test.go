package lintcache

import (
	"context"
	"testing"

	"github.com/strob0t/ruffls/internal/check"
)

type countingEngine struct {
	calls int
}

func (e *countingEngine) Lint(_ context.Context, _, source string) ([]check.Check, error) {
	e.calls++
	return []check.Check{{RuleCode: "X1", Message: source, Row: 1, Column: 0, EndRow: 1, EndCol: 1}}, nil
}

func TestCacheHitAvoidsSecondLint(t *testing.T) {
	engine := &countingEngine{}
	c, err := New(engine, 100)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Close()

	checks1, err := c.Lint(context.Background(), "file:///a.py", "x = 1\n")
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	checks2, err := c.Lint(context.Background(), "file:///a.py", "x = 1\n")
	if err != nil {
		t.Fatalf("lint: %v", err)
	}

	if engine.calls != 1 {
		t.Fatalf("expected 1 underlying call, got %d", engine.calls)
	}
	if len(checks1) != 1 || len(checks2) != 1 {
		t.Fatalf("expected 1 check each, got %d and %d", len(checks1), len(checks2))
	}
}

func TestCacheMissOnContentChange(t *testing.T) {
	engine := &countingEngine{}
	c, err := New(engine, 100)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Close()

	if _, err := c.Lint(context.Background(), "file:///a.py", "x = 1\n"); err != nil {
		t.Fatalf("lint: %v", err)
	}
	if _, err := c.Lint(context.Background(), "file:///a.py", "x = 2\n"); err != nil {
		t.Fatalf("lint: %v", err)
	}

	if engine.calls != 2 {
		t.Fatalf("expected 2 underlying calls, got %d", engine.calls)
	}
}

func TestCacheKeyDiffersByURI(t *testing.T) {
	engine := &countingEngine{}
	c, err := New(engine, 100)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Close()

	if _, err := c.Lint(context.Background(), "file:///a.py", "x = 1\n"); err != nil {
		t.Fatalf("lint: %v", err)
	}
	if _, err := c.Lint(context.Background(), "file:///b.py", "x = 1\n"); err != nil {
		t.Fatalf("lint: %v", err)
	}

	if engine.calls != 2 {
		t.Fatalf("expected 2 underlying calls for distinct URIs with same content, got %d", engine.calls)
	}
}
