package filterbank

import (
	"sync"
)

// Cache memoizes filter banks by configuration. Each distinct configuration is built
// at most once; concurrent callers asking for the same one wait for that build.
type Cache struct {
	mu      sync.Mutex
	entries map[Config]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	fb   *FilterBank
	err  error
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[Config]*cacheEntry)}
}

// Get returns the filter bank for cfg, building it on first request.
// Failed builds are cached too; the same invalid config fails the same way.
func (c *Cache) Get(cfg Config) (*FilterBank, error) {
	key := cfg.withDefaults()

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.fb, entry.err = Build(key)
	})
	return entry.fb, entry.err
}

// Len returns the number of configurations seen so far.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var defaultCache = NewCache()

// Cached returns the filter bank for cfg from the package-level cache.
func Cached(cfg Config) (*FilterBank, error) {
	return defaultCache.Get(cfg)
}
