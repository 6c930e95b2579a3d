package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"lukechampine.com/blake3"
)

// ResponseCache stores completed pipeline results in redis keyed by the
// content hash of the fetched audio. Identical audio re-submitted under
// a fresh signed URL still hits.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key derives the cache key for an audio payload.
func Key(audio []byte) string {
	sum := blake3.Sum256(audio)
	return "voxrelay:transcript:" + hex.EncodeToString(sum[:])
}

// Get loads a cached value into dest. A miss returns (false, nil).
func (c *ResponseCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
