// Package embcache decorates an embedding provider with a bounded in-memory
// LRU cache. Entries never expire by time, only under capacity pressure, in
// access order.
package embcache

import (
	"context"
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultCapacity bounds the cache when no capacity is configured.
const DefaultCapacity = 1000

// Provider is the inner embedding provider being decorated.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CachedEmbedder caches embeddings by text digest. The LRU's internal lock
// covers insert and evict; cached vectors are never mutated after insert.
type CachedEmbedder struct {
	inner      Provider
	cache      *lru.Cache[[32]byte, []float32]
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator with the given capacity.
// cacheTotal (optional) is a counter vec with label "result" ("hit"/"miss").
func New(
	inner Provider,
	capacity int,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) (*CachedEmbedder, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[[32]byte, []float32](capacity)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachedEmbedder{
		inner:      inner,
		cache:      cache,
		cacheTotal: cacheTotal,
		logger:     logger,
	}, nil
}

// Embed returns a cached embedding or calls the inner provider and stores
// the vector.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := sha256.Sum256([]byte(text))

	if vec, ok := c.cache.Get(key); ok {
		c.incCache("hit")
		return vec, nil
	}

	c.incCache("miss")

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if evicted := c.cache.Add(key, vec); evicted {
		c.logger.Debug("Evicted least recently used embedding",
			zap.Int("capacity", c.cache.Len()))
	}
	return vec, nil
}

// Len returns the number of cached vectors.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
