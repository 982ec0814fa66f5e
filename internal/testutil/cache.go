package testutil

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// MemCache is an in-memory result cache with the GetOrSet/DeleteByPrefix
// contract of the redis cache. Values round-trip through JSON.
type MemCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	Loads   int
	Hits    int
}

// NewMemCache returns an empty MemCache.
func NewMemCache() *MemCache {
	return &MemCache{entries: make(map[string][]byte)}
}

func (c *MemCache) GetOrSet(ctx context.Context, key string, dest interface{}, _ time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	c.mu.Lock()
	data, ok := c.entries[key]
	if ok {
		c.Hits++
	}
	c.mu.Unlock()
	if ok {
		return json.Unmarshal(data, dest)
	}

	v, err := loader(ctx)
	if err != nil {
		return err
	}
	data, err = json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = data
	c.Loads++
	c.mu.Unlock()
	return json.Unmarshal(data, dest)
}

func (c *MemCache) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

// Keys returns the number of stored entries.
func (c *MemCache) Keys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

//Personal.AI order the ending
