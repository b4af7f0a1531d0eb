// Package cache provides an in-memory TTL cache for fetched pod specs.
// It trades a bounded staleness window for a large reduction in remote
// repository reads.
package cache

import (
	"sync"
	"time"

	"github.com/actionspec-io/spec-hub/internal/pkg/metrics"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
)

// Entry is a cached spec document together with the metadata needed to
// serve reads and detect write conflicts.
type Entry struct {
	Spec      model.PodSpec
	Raw       map[string]any
	SHA       string
	FetchedAt time.Time
}

// Cache is a TTL-bounded map of pod identity to spec entry. All methods
// are safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[model.PodIdentity]Entry

	// now is overridable in tests.
	now func() time.Time
}

// New creates a cache whose entries expire ttl after they were stored.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[model.PodIdentity]Entry),
		now:     time.Now,
	}
}

// Get returns the entry for id if present and not expired. Expired entries
// are removed on access.
func (c *Cache) Get(id model.PodIdentity) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		metrics.CacheMissesTotal.Inc()
		return Entry{}, false
	}
	if c.now().Sub(e.FetchedAt) >= c.ttl {
		delete(c.entries, id)
		metrics.CacheMissesTotal.Inc()
		return Entry{}, false
	}
	metrics.CacheHitsTotal.Inc()
	return e, true
}

// Put stores an entry for id, stamping it with the current time.
func (c *Cache) Put(id model.PodIdentity, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.FetchedAt = c.now()
	c.entries[id] = e
}

// Invalidate removes the entry for id, if any.
func (c *Cache) Invalidate(id model.PodIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
}

// Clear drops every entry.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[model.PodIdentity]Entry)
	return n
}

// Len reports the number of live entries, including any not yet expired.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
