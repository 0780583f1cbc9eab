package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/datalouna/skinshop/internal/logger"
	"github.com/datalouna/skinshop/internal/models"
)

const (
	cacheKeyPrefix = "items:"
	staleKeyPrefix = "items:stale:"

	// DefaultTTL is how long a cached catalog stays fresh
	DefaultTTL = 5 * time.Minute

	// Redis evicts expired keys, so a plain re-read after upstream
	// failure would almost never find anything. Every write keeps a
	// second copy under the stale key with this much longer TTL and the
	// fallback path reads that copy
	staleTTL = 24 * time.Hour
)

// cachedEntry is the cache wire format of one catalog entry
type cachedEntry struct {
	Name             string          `json:"name"`
	TradablePrice    decimal.Decimal `json:"tradablePrice"`
	NonTradablePrice decimal.Decimal `json:"nonTradablePrice"`
}

// Cache stores priced catalogs in Redis keyed by currency. It is a
// performance optimization, not a source of truth: every failure mode
// (store down, timeout, broken payload) is reported as a miss and never
// as an error, and write failures are logged and swallowed
type Cache struct {
	client redis.UniversalClient
	logger logger.Logger
}

func NewCache(client redis.UniversalClient, l logger.Logger) *Cache {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &Cache{
		client: client,
		logger: l,
	}
}

// Get returns the fresh catalog for the currency, or a miss
func (c *Cache) Get(ctx context.Context, currency string) ([]models.CatalogEntry, bool) {
	return c.get(ctx, cacheKeyPrefix+currency)
}

// GetStale returns the long-lived stale copy for the currency, or a
// miss. Used only when the pricing upstream is unavailable
func (c *Cache) GetStale(ctx context.Context, currency string) ([]models.CatalogEntry, bool) {
	return c.get(ctx, staleKeyPrefix+currency)
}

// Set writes the catalog under both the fresh and the stale key.
// Failing to cache must not fail the request that produced the data
func (c *Cache) Set(ctx context.Context, currency string, entries []models.CatalogEntry, ttl time.Duration) {
	cached := make([]cachedEntry, 0, len(entries))
	for _, e := range entries {
		cached = append(cached, cachedEntry(e))
	}

	value, err := json.Marshal(cached)
	if err != nil {
		c.logger.Warn("Failed to encode catalog for cache", "currency", currency, "error", err)
		return
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+currency, value, ttl).Err(); err != nil {
		c.logger.Warn("Failed to write price cache", "currency", currency, "error", err)
	}

	if err := c.client.Set(ctx, staleKeyPrefix+currency, value, staleTTL).Err(); err != nil {
		c.logger.Warn("Failed to write stale price cache", "currency", currency, "error", err)
	}
}

func (c *Cache) get(ctx context.Context, key string) ([]models.CatalogEntry, bool) {
	value, err := c.client.Get(ctx, key).Result()

	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		c.logger.Warn("Failed to read price cache", "key", key, "error", err)
		return nil, false
	}

	var cached []cachedEntry
	if err := json.Unmarshal([]byte(value), &cached); err != nil {
		c.logger.Warn("Broken payload in price cache", "key", key, "error", err)
		return nil, false
	}

	entries := make([]models.CatalogEntry, 0, len(cached))
	for _, e := range cached {
		entries = append(entries, models.CatalogEntry(e))
	}

	return entries, true
}
