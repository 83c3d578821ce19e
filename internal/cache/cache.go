package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/matheuskafuri/spacegallery/internal/logging"
)

// Fetcher retrieves the full catalog from upstream.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// Cache fetches the catalog once and serves the same Dataset afterwards.
// Concurrent Load calls share one in-flight fetch. A failed fetch leaves the
// cache empty so a later Load retries.
type Cache struct {
	fetcher Fetcher
	group   singleflight.Group

	mu sync.RWMutex
	ds *Dataset

	fetches atomic.Int64
}

func New(f Fetcher) *Cache {
	return &Cache{fetcher: f}
}

// Load returns the memoized dataset, fetching it on first use. The shared
// fetch ignores the cancellation of whichever caller started it; each caller
// stops waiting when its own ctx is done.
func (c *Cache) Load(ctx context.Context) (*Dataset, error) {
	if ds, ok := c.Peek(); ok {
		return ds, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("dataset", func() (interface{}, error) {
		// A caller that lost the race to a finished fetch lands here.
		if ds, ok := c.Peek(); ok {
			return ds, nil
		}

		c.fetches.Add(1)
		entries, err := c.fetcher.Fetch(fetchCtx)
		if err != nil {
			logging.Warn("catalog fetch failed", "err", err)
			return nil, err
		}

		ds := NewDataset(entries)
		c.mu.Lock()
		c.ds = ds
		c.mu.Unlock()

		logging.Info("catalog loaded", "entries", ds.Len())
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logging.Debug("catalog load joined in-flight fetch", "fetches", c.Fetches())
		}
		return res.Val.(*Dataset), nil
	}
}

// Peek returns the dataset without fetching.
func (c *Cache) Peek() (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ds, c.ds != nil
}

func (c *Cache) Loaded() bool {
	_, ok := c.Peek()
	return ok
}

// Fetches reports how many upstream fetches this cache has started.
func (c *Cache) Fetches() int64 {
	return c.fetches.Load()
}
