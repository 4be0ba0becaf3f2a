// Package cache keeps rendered media (petpet GIFs, propaganda images) so
// repeated requests skip the fetch and render.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is a byte cache keyed by string. A miss is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key hashes parts into a short, Redis-safe cache key.
func Key(kind string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}

type entry struct {
	data    []byte
	expires time.Time
}

// LRUCache is the in-process Store used when no Redis is configured.
type LRUCache struct {
	cache *lru.Cache[string, entry]
	ttl   time.Duration
	now   func() time.Time

	mu     sync.Mutex
	hits   int
	misses int
}

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	cache, err := lru.New[string, entry](size)
	if err != nil {
		// This should only happen if size <= 0
		log.Printf("Error creating LRU cache: %v. Using size 256.", err)
		cache, _ = lru.New[string, entry](256)
	}
	return &LRUCache{cache: cache, ttl: ttl, now: time.Now}
}

func (c *LRUCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := c.cache.Get(key)
	if ok && c.ttl > 0 && c.now().After(e.expires) {
		c.cache.Remove(key)
		ok = false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok {
		c.misses++
		return nil, false, nil
	}
	c.hits++
	return e.data, true, nil
}

func (c *LRUCache) Set(ctx context.Context, key string, value []byte) error {
	c.cache.Add(key, entry{data: value, expires: c.now().Add(c.ttl)})
	return nil
}

// Stats returns cache hit/miss statistics
func (c *LRUCache) Stats() (hits, misses, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.cache.Len()
}

// Remember returns the cached value for key or computes, stores and returns
// it. Cache failures are logged and never fail the call.
func Remember(ctx context.Context, store Store, key string, compute func() ([]byte, error)) ([]byte, error) {
	if store != nil {
		data, ok, err := store.Get(ctx, key)
		if err != nil {
			log.Printf("Cache get %s failed: %v", key, err)
		} else if ok {
			return data, nil
		}
	}

	data, err := compute()
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Set(ctx, key, data); err != nil {
			log.Printf("Cache set %s failed: %v", key, err)
		}
	}
	return data, nil
}
