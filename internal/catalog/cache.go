package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps rendered service and destination details in Redis so detail
// reads skip the aggregate columns until a review invalidates them.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCache returns a cache backed by client. A nil client or a non-positive
// TTL disables caching and every call becomes a no-op.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil || ttl <= 0 {
		return &Cache{}
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON decodes the entry at key into dst and reports whether it was found.
// An entry that no longer decodes is evicted and treated as a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !c.enabled() || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON stores v at key for the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.enabled() || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Delete evicts keys, skipping empty ones such as the key of a service
// without a destination.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() {
		return nil
	}
	live := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			live = append(live, key)
		}
	}
	if len(live) == 0 {
		return nil
	}
	return c.client.Del(ctx, live...).Err()
}
