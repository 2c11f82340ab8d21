// Package querycache is a time-bounded cache of ranked search results,
// keyed by the full search request shape.
package querycache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/trident/internal/domain/search/order"
	"github.com/kailas-cloud/trident/internal/domain/search/result"
)

// DefaultMaxEntries bounds the cache when no capacity is configured.
const DefaultMaxEntries = 1024

// Key identifies one cached result list. Sort order is part of the key so a
// name-sorted presentation never serves a score-sorted entry.
type Key struct {
	Query string
	Limit int
	Topic string
	Order order.Order
}

type entry struct {
	storedAt time.Time
	results  []result.Result
}

// ComputeFunc produces the ranked results on a cache miss.
type ComputeFunc func(ctx context.Context) ([]result.Result, error)

// Cache stores ranked result lists with a TTL, evicting stale entries lazily
// on lookup. The LRU bounds entry count; its internal lock covers structural
// mutation, and cached result slices are immutable once stored.
//
// Two concurrent lookups for the same cold key may both compute; there is no
// stampede protection.
type Cache struct {
	ttl     time.Duration
	entries *lru.Cache[Key, *entry]
	total   *prometheus.CounterVec
	now     func() time.Time
}

// New creates a result cache. A zero or negative TTL disables caching
// entirely: every lookup computes. total (optional) is a counter vec with
// label "result" ("hit"/"miss").
func New(ttl time.Duration, maxEntries int, total *prometheus.CounterVec) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[Key, *entry](maxEntries)
	if err != nil {
		// lru.New only fails on non-positive size.
		panic(err)
	}
	return &Cache{
		ttl:     ttl,
		entries: entries,
		total:   total,
		now:     time.Now,
	}
}

// GetOrCompute returns the cached results for key when present and fresh,
// otherwise computes, stores, and returns them. The boolean reports a cache
// hit. Compute failures are never cached.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute ComputeFunc) ([]result.Result, bool, error) {
	if c.ttl <= 0 {
		results, err := compute(ctx)
		return results, false, err
	}

	if e, ok := c.entries.Get(key); ok {
		if c.now().Sub(e.storedAt) <= c.ttl {
			c.inc("hit")
			return e.results, true, nil
		}
		c.entries.Remove(key)
	}

	c.inc("miss")

	results, err := c.compute(ctx, key, compute)
	return results, false, err
}

func (c *Cache) compute(ctx context.Context, key Key, compute ComputeFunc) ([]result.Result, error) {
	results, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, &entry{storedAt: c.now(), results: results})
	return results, nil
}

// Len returns the number of live entries, stale ones included.
func (c *Cache) Len() int {
	return c.entries.Len()
}

func (c *Cache) inc(result string) {
	if c.total != nil {
		c.total.WithLabelValues(result).Inc()
	}
}
