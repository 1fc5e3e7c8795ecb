package cache

import (
	"time"

	"adFatigue/pkg/logger"

	"github.com/dgraph-io/ristretto"
)

// Cache wraps Ristretto with a fixed TTL for every entry.
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// New creates an in-process cache holding up to maxItems entries.
func New(maxItems int64, ttl time.Duration) (*Cache, error) {
	if maxItems <= 0 {
		maxItems = 1000
	}

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10, // keys tracked for admission
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cache initialized",
		"max_items", maxItems,
		"ttl_seconds", int(ttl.Seconds()),
	)

	return &Cache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Get returns (value, true) when key is present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	return c.client.Get(key)
}

// Set stores value with the configured TTL. Writes are applied asynchronously;
// call Wait when the value must be readable immediately.
func (c *Cache) Set(key string, value interface{}, cost int64) bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.SetWithTTL(key, value, cost, c.ttl)
}

func (c *Cache) Delete(key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(key)
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Wait()
}

func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
		logger.Info("Cache closed")
	}
}
