package report

import (
	"sync"

	"gstledger/internal/domain"
)

// Kind names a report for cache keying.
type Kind string

const (
	KindRegister        Kind = "register"
	KindNetTax          Kind = "net_tax"
	KindHSNSummary      Kind = "hsn_summary"
	KindPaymentRegister Kind = "payment_register"
	KindAging           Kind = "aging"
)

// CacheKey identifies one cached report build.
type CacheKey struct {
	Kind   Kind
	Period string
	Scheme domain.Scheme
}

// Cache memoizes built report rows keyed by (kind, period, scheme). Any
// bill or payment write invalidates the whole cache; entries are never
// refreshed in place.
type Cache struct {
	mu      sync.RWMutex
	entries map[CacheKey]any
}

// NewCache creates an empty report cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[CacheKey]any)}
}

// Get returns the cached build for the key, if any.
func (c *Cache) Get(key CacheKey) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores a built report under the key.
func (c *Cache) Set(key CacheKey, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Invalidate drops every entry. Called on any bill or payment write.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[CacheKey]any)
}

// Len reports the number of cached builds.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
