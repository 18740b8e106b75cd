package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type localEntry struct {
	expires time.Time
	data    []byte
}

// Cache is a small read-through response cache: redis shared between
// nodes, with a short-lived in-process layer in front of it.
type Cache struct {
	client *redis.Client
	mu     sync.RWMutex
	local  map[string]localEntry
}

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, local: make(map[string]localEntry)}
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	c.mu.RLock()
	entry, found := c.local[key]
	c.mu.RUnlock()
	if found && entry.expires.After(time.Now()) {
		return json.Unmarshal(entry.data, out)
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(time.Minute), data: data}
	c.mu.Unlock()
	return json.Unmarshal(data, out)
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(expiration), data: data}
	c.mu.Unlock()
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.local, key)
	}
	c.mu.Unlock()
	c.client.Del(ctx, keys...)
}

func (c *Cache) Close() {
	_ = c.client.Close()
}

// CacheHelper wraps Cache for one value type: read the key, or build
// and store the value when missing.
type CacheHelper[T any] struct {
	Cache *Cache
}

func NewCacheHelper[T any](cache *Cache) *CacheHelper[T] {
	return &CacheHelper[T]{Cache: cache}
}

func (c *CacheHelper[T]) Handle(ctx context.Context, key string, out *T, fn func() T, expiration time.Duration) error {
	if c.Cache == nil {
		*out = fn()
		return nil
	}
	if err := c.Cache.Get(ctx, key, out); err != nil {
		*out = fn()
		return c.Cache.Set(ctx, key, *out, expiration)
	}
	return nil
}
