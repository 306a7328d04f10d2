// Package doccache is a bounded-TTL caching decorator over the corpus lister.
// It sits in front of the full-corpus SCAN so that facet, related-content, and
// sitemap-style aggregate calls do not hammer the store; within the TTL it
// serves a stale-but-valid snapshot. It is not part of any correctness path.
package doccache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	domdoc "github.com/inkwell-cms/relevance/internal/domain/document"
)

// Lister lists the document corpus.
type Lister interface {
	List(ctx context.Context) ([]domdoc.Document, error)
}

// Cache decorates a Lister with an in-process TTL snapshot.
type Cache struct {
	inner      Lister
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger

	mu        sync.Mutex
	snapshot  []domdoc.Document
	fetchedAt time.Time
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner Lister, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{inner: inner, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// List returns the cached corpus snapshot, refreshing it when the TTL expired.
// Concurrent callers share one snapshot; the refresh holds the lock so only a
// single caller hits the store per expiry.
func (c *Cache) List(ctx context.Context) ([]domdoc.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		c.incCache("hit")
		return c.snapshot, nil
	}

	c.incCache("miss")

	docs, err := c.inner.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh corpus snapshot: %w", err)
	}

	c.snapshot = docs
	c.fetchedAt = time.Now()
	c.logger.Debug("corpus snapshot refreshed", zap.Int("documents", len(docs)))
	return docs, nil
}

// Invalidate drops the snapshot so the next List refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.fetchedAt = time.Time{}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
