// Package cache provides a Redis-backed cache for listing search results.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plink/plink/internal/model"
)

// TTL is how long cached search results stay valid. Invalidation bumps a
// generation counter instead of scanning keys, so stale generations simply
// age out.
const TTL = 5 * time.Minute

const generationKey = "search:gen"

// SearchCache caches search results keyed by filter combination.
type SearchCache struct {
	client *redis.Client
}

// NewSearchCache wraps an existing Redis client.
func NewSearchCache(client *redis.Client) *SearchCache {
	return &SearchCache{client: client}
}

// Get returns cached results for the filters, or (nil, false) on a miss.
// Cache errors degrade to a miss so search keeps working without Redis.
func (c *SearchCache) Get(ctx context.Context, filters model.SearchFilters) ([]model.Location, bool) {
	key, err := c.resultKey(ctx, filters)
	if err != nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var results []model.Location
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	return results, true
}

// Put stores search results for the filters.
func (c *SearchCache) Put(ctx context.Context, filters model.SearchFilters, results []model.Location) error {
	key, err := c.resultKey(ctx, filters)
	if err != nil {
		return err
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding search results: %w", err)
	}
	if err := c.client.Set(ctx, key, data, TTL).Err(); err != nil {
		return fmt.Errorf("caching search results: %w", err)
	}
	return nil
}

// Invalidate drops all cached results by moving to a new generation. Called
// when a listing goes live or otherwise changes visibility.
func (c *SearchCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("invalidating search cache: %w", err)
	}
	return nil
}

func (c *SearchCache) resultKey(ctx context.Context, filters model.SearchFilters) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("reading search cache generation: %w", err)
	}
	// Filter values are user input; JSON-encode the struct so no value can
	// alias another filter combination's key.
	encoded, err := json.Marshal(filters)
	if err != nil {
		return "", fmt.Errorf("encoding search cache key: %w", err)
	}
	return fmt.Sprintf("search:%d:%s", gen, encoded), nil
}
