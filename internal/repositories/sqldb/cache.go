// internal/repositories/sqldb/cache.go
// Cache TTL untuk agregasi network; dashboard memanggilnya di hampir tiap request.
package sqldb

import (
	"context"
	"sync"
	"time"

	"wellprod/internal/models"
	"wellprod/internal/util"
)

// SummarySource is what CachedSummary wraps.
type SummarySource interface {
	NetworkSummary(ctx context.Context) ([]models.NetworkSummary, error)
}

// CachedSummary memoizes NetworkSummary for TTL. A TTL <= 0 disables caching.
type CachedSummary struct {
	Src   SummarySource
	TTL   time.Duration
	Clock util.Clock

	mu      sync.RWMutex
	data    []models.NetworkSummary
	fetched time.Time
	valid   bool
	gen     uint64 // naik tiap Invalidate
}

func NewCachedSummary(src SummarySource, ttl time.Duration) *CachedSummary {
	return &CachedSummary{Src: src, TTL: ttl, Clock: util.RealClock{}}
}

func (c *CachedSummary) NetworkSummary(ctx context.Context) ([]models.NetworkSummary, error) {
	if c.TTL <= 0 {
		return c.Src.NetworkSummary(ctx)
	}
	now := c.Clock.Now()

	c.mu.RLock()
	if c.valid && now.Sub(c.fetched) < c.TTL {
		out := c.data
		c.mu.RUnlock()
		return out, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	data, err := c.Src.NetworkSummary(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	// hasil fetch yang dimulai sebelum Invalidate tidak disimpan
	if c.gen == gen {
		c.data, c.fetched, c.valid = data, now, true
	}
	c.mu.Unlock()
	return data, nil
}

// Invalidate drops the cached value (dipanggil setelah ingest).
func (c *CachedSummary) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.data = nil
	c.gen++
	c.mu.Unlock()
}
