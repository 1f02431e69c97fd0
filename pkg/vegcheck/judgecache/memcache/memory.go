// Package memcache provides a bounded in-process judgment cache backed by
// an LRU. Suitable for single-process deployments and tests; judgments do
// not survive a restart.
package memcache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vegcheck/vegcheck/pkg/vegcheck/judge"
)

// DefaultSize bounds the cache when no size is given.
const DefaultSize = 1024

// Cache is an LRU-backed judge.Cache.
type Cache struct {
	lru *lru.Cache[string, judge.Judgment]
}

// New creates a cache holding at most size judgments.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	l, err := lru.New[string, judge.Judgment](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get returns the cached judgment for an ingredient name, if present.
func (c *Cache) Get(_ context.Context, name string) (judge.Judgment, bool, error) {
	j, ok := c.lru.Get(judge.CacheKey(name))
	return j, ok, nil
}

// Set stores a judgment under the normalized ingredient name.
func (c *Cache) Set(_ context.Context, name string, j judge.Judgment) error {
	c.lru.Add(judge.CacheKey(name), j)
	return nil
}

// Close is a no-op for the in-memory cache.
func (c *Cache) Close() error { return nil }

var _ judge.Cache = (*Cache)(nil)
