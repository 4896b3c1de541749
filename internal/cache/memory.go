package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is a process-local PageCache bounded by size and ttl.
type MemoryCache struct {
	mu          sync.Mutex
	entries     *expirable.LRU[string, []byte]
	generations map[string]uint64
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	return &MemoryCache{
		entries:     expirable.NewLRU[string, []byte](size, nil, ttl),
		generations: map[string]uint64{},
	}
}

func (c *MemoryCache) Generation(_ context.Context, route string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[route], nil
}

func (c *MemoryCache) Get(_ context.Context, route string, gen uint64, key string) ([]byte, bool, error) {
	v, ok := c.entries.Get(entryKey(route, gen, key))
	return v, ok, nil
}

// Set drops writes for a generation that has already been invalidated.
func (c *MemoryCache) Set(_ context.Context, route string, gen uint64, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[route] != gen {
		return nil
	}
	c.entries.Add(entryKey(route, gen, key), value)
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, route string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[route]++
	return nil
}

func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

func entryKey(route string, gen uint64, key string) string {
	return route + "\x00" + strconv.FormatUint(gen, 10) + "\x00" + key
}
