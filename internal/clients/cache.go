package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through cache for client lookups. Forms resolve the same
// client repeatedly while editing a document, so Get is the hot path.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil redis client disables
// caching transparently.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("clients:%d", id)
}

// Fetch loads a cached client or populates the cache using the loader.
func (c *Cache) Fetch(ctx context.Context, id int64, loader func(context.Context) (*Client, error)) (*Client, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	payload, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var cached Client
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
		// corrupt entry, fall through to the loader
	} else if err != redis.Nil {
		return nil, err
	}

	value, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(value); err == nil {
		_ = c.client.Set(ctx, cacheKey(id), raw, c.ttl).Err()
	}
	return value, nil
}

// Invalidate drops the cached entry after a mutation.
func (c *Cache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, cacheKey(id)).Err()
}
