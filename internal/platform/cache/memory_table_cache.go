// Package cache provides memoization caches for wide tables.
package cache

import (
	"context"
	"sync"
	"time"

	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
)

type memoryEntry struct {
	table     *entity.WideTable
	expiresAt time.Time // zero means no expiry
}

// MemoryTableCache is a process-wide wide-table cache.
// Without a TTL, entries live for the lifetime of the process; the key space is
// bounded by the day range times the (fixed) catalog.
type MemoryTableCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     func() time.Duration
	now     func() time.Time
}

var _ usecase.TableCache = (*MemoryTableCache)(nil)

// NewMemoryTableCache creates an empty cache whose entries never expire.
func NewMemoryTableCache() *MemoryTableCache {
	return NewExpiringMemoryTableCache(nil)
}

// NewExpiringMemoryTableCache creates an empty cache whose entries expire after ttl(),
// evaluated when each entry is stored. A nil ttl disables expiry.
func NewExpiringMemoryTableCache(ttl func() time.Duration) *MemoryTableCache {
	return &MemoryTableCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Name returns the backend name reported by the health endpoint.
func (c *MemoryTableCache) Name() string { return "memory" }

// Get returns the table stored under key. Expired entries are misses.
func (c *MemoryTableCache) Get(_ context.Context, key string) (*entity.WideTable, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.table, true
}

// Set stores table under key. The last writer wins on identical keys.
func (c *MemoryTableCache) Set(_ context.Context, key string, table *entity.WideTable) {
	if table == nil {
		return
	}
	e := memoryEntry{table: table}
	if c.ttl != nil {
		e.expiresAt = c.now().Add(c.ttl())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// Len returns the number of stored tables, including expired ones not yet evicted.
func (c *MemoryTableCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
