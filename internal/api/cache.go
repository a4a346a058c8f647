package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "venuegrid:read:"

// ReadCache stores GET responses in Redis. A nil *ReadCache is a valid cache
// that never hits.
type ReadCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewReadCache returns a cache over rdb. A nil client or non-positive ttl
// yields a nil cache.
func NewReadCache(rdb *redis.Client, ttl time.Duration) *ReadCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &ReadCache{rdb: rdb, ttl: ttl}
}

// Get decodes the cached value for key into out.
func (c *ReadCache) Get(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}
	val, err := c.rdb.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, out) == nil
}

// Set stores val under key.
func (c *ReadCache) Set(ctx context.Context, key string, val any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, cachePrefix+key, data, c.ttl).Err()
}

// Invalidate drops every cached read.
func (c *ReadCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = c.rdb.Del(ctx, keys...).Err()
	}
}
