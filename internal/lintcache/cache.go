// Package lintcache wraps a LintEngine with an in-process cache keyed by
// (uri, content-hash), so an unchanged buffer is not re-linted. The cache is
// cleared on restart; it is not a persistence layer.
package lintcache

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/strob0t/ruffls/internal/check"
	"github.com/strob0t/ruffls/internal/lintengine"
)

// Cache wraps a ristretto cache, storing the lint results for a given
// document content hash.
type Cache struct {
	c      *ristretto.Cache[string, []check.Check]
	engine lintengine.Engine
}

// New builds a Cache in front of engine. maxEntries bounds the number of
// distinct (uri, hash) keys held at once.
func New(engine lintengine.Engine, maxEntries int64) (*Cache, error) {
	if maxEntries < 1 {
		maxEntries = 1
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []check.Check]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("lintcache: new ristretto cache: %w", err)
	}
	return &Cache{c: c, engine: engine}, nil
}

// Lint returns the cached result for (uri, source)'s content hash if
// present, otherwise invokes the wrapped engine and caches the result.
func (c *Cache) Lint(ctx context.Context, uri, source string) ([]check.Check, error) {
	key := cacheKey(uri, source)

	if cached, ok := c.c.Get(key); ok {
		return cached, nil
	}

	checks, err := c.engine.Lint(ctx, uri, source)
	if err != nil {
		return nil, err
	}

	c.c.Set(key, checks, 1)
	c.c.Wait()
	return checks, nil
}

// Close shuts down the underlying cache and releases its background
// goroutines.
func (c *Cache) Close() {
	c.c.Close()
}

// cacheKey combines uri and a blake2b digest of source into one string key,
// so the same content under different URIs never collides.
func cacheKey(uri, source string) string {
	sum := blake2b.Sum256([]byte(source))
	return uri + "#" + hex.EncodeToString(sum[:])
}
