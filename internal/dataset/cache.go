package dataset

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes one Load of a fixed path. The cached table is shared by every
// caller; a failed load is not cached.
type Cache struct {
	path string
	opt  LoadOptions
	load func(string, LoadOptions) (*Table, error)

	group singleflight.Group

	mu       sync.RWMutex
	table    *Table
	loadedAt time.Time
	gen      uint64 // bumped by Reload; a load only stores into its own generation
}

// NewCache returns a cache that loads path with opt on first use.
func NewCache(path string, opt LoadOptions) *Cache {
	return &Cache{path: path, opt: opt, load: Load}
}

// Path returns the source file path.
func (c *Cache) Path() string { return c.path }

// Loaded reports whether a table is cached.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table != nil
}

// LoadedAt returns when the cached table was loaded; zero if nothing is cached.
func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Get returns the cached table, loading it on first use. Concurrent first
// callers share a single load.
func (c *Cache) Get(ctx context.Context) (*Table, error) {
	c.mu.RLock()
	t := c.table
	c.mu.RUnlock()
	if t != nil {
		return t, nil
	}
	ch := c.group.DoChan("load", func() (any, error) {
		c.mu.RLock()
		cached, gen := c.table, c.gen
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
		t, err := c.load(c.path, c.opt)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.table = t
			c.loadedAt = time.Now()
		}
		c.mu.Unlock()
		return t, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Table), nil
	}
}

// Reload drops the cached table and loads the file again.
func (c *Cache) Reload(ctx context.Context) (*Table, error) {
	c.mu.Lock()
	c.table = nil
	c.loadedAt = time.Time{}
	c.gen++
	c.mu.Unlock()
	c.group.Forget("load")
	return c.Get(ctx)
}
