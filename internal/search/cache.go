package search

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"itemfinder/internal/catalog"
)

// Cache memoises results per normalised term for one loaded catalog.
// Reload swaps the catalog and drops every entry. Concurrent misses on the
// same term share a single computation.
type Cache struct {
	mu      sync.RWMutex
	cat     *catalog.Catalog
	epoch   uint64
	entries map[string]*ResultSet
	group   singleflight.Group
}

func NewCache(cat *catalog.Catalog) *Cache {
	return &Cache{cat: cat, entries: make(map[string]*ResultSet)}
}

func (c *Cache) Catalog() *catalog.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cat
}

func (c *Cache) Reload(cat *catalog.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cat = cat
	c.epoch++
	c.entries = make(map[string]*ResultSet)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Search(ctx context.Context, term string) (*ResultSet, error) {
	key := CacheKey(term)
	if key == "" {
		return newResultSet(""), nil
	}

	c.mu.RLock()
	if rs, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return rs, nil
	}
	cat, epoch := c.cat, c.epoch
	c.mu.RUnlock()

	// The shared computation must not die with whichever caller started it.
	flightKey := strconv.FormatUint(epoch, 10) + "\x00" + key
	ch := c.group.DoChan(flightKey, func() (any, error) {
		rs, err := Search(context.WithoutCancel(ctx), term, cat)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.epoch == epoch {
			c.entries[key] = rs
		}
		c.mu.Unlock()
		return rs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ResultSet), nil
	}
}
