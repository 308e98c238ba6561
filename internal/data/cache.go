package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trade-planner/internal/models"
)

// CachedProvider memoizes fetches for a short TTL so the same symbol
// analyzed for two trade types does not hit the source twice.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry

	now func() time.Time
}

type cacheEntry struct {
	candles []models.Candle
	fetched time.Time
}

// NewCachedProvider wraps inner with a TTL cache.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *CachedProvider) Name() string {
	return c.inner.Name()
}

func (c *CachedProvider) GetCandles(ctx context.Context, symbol string, tf models.Timeframe, limit int) ([]models.Candle, error) {
	key := fmt.Sprintf("%s|%s|%d", symbol, tf, limit)

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()

	if ok && c.now().Sub(entry.fetched) < c.ttl {
		return copyCandles(entry.candles), nil
	}

	candles, err := c.inner.GetCandles(ctx, symbol, tf, limit)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{candles: copyCandles(candles), fetched: c.now()}
	c.mu.Unlock()

	return candles, nil
}

// Invalidate drops all cached entries.
func (c *CachedProvider) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func copyCandles(candles []models.Candle) []models.Candle {
	out := make([]models.Candle, len(candles))
	copy(out, candles)
	return out
}
