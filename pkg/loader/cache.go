package loader

import (
	"sync"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Cache stores the last successfully fetched payload per slug so a remount
// can render instantly while a fresh fetch runs. Entries are never
// authoritative; every successful fetch overwrites them. Implementations may
// fail silently on write (e.g. session storage unavailable).
type Cache interface {
	Get(slug string) (schema.Payload, bool)
	Set(slug string, payload schema.Payload)
}

// MemoryCache is the in-process Cache used by default and in tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]schema.Payload
}

// NewMemoryCache constructs an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]schema.Payload)}
}

// Get implements Cache.
func (c *MemoryCache) Get(slug string) (schema.Payload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	payload, ok := c.entries[slug]
	return payload, ok
}

// Set implements Cache.
func (c *MemoryCache) Set(slug string, payload schema.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug] = payload
}
