package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// catalogCachePrefix is the Redis key prefix for catalog projections.
	catalogCachePrefix = "catalog:"
	// catalogCacheTTL bounds staleness of the read-only catalog.
	catalogCacheTTL = 5 * time.Minute
)

// GetCatalog retrieves a cached catalog projection into dest.
// Returns false on cache miss; corrupted entries are treated as misses.
func (c *Cache) GetCatalog(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, catalogCachePrefix+key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return false, nil //nolint:nilerr
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Corrupted cache entry - treat as miss
		return false, nil //nolint:nilerr
	}

	return true, nil
}

// SetCatalog caches a catalog projection under key.
func (c *Cache) SetCatalog(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal catalog entry: %w", err)
	}

	if err := c.client.Set(ctx, catalogCachePrefix+key, data, catalogCacheTTL).Err(); err != nil {
		return fmt.Errorf("set catalog entry: %w", err)
	}

	return nil
}
