package omniweb

import (
	"context"
	"sync"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
)

// CachedProvider wraps a SeriesProvider with an in-memory LRU of yearly tables.
// Tables are immutable once fetched, so cached entries never expire.
type CachedProvider struct {
	inner   domain.SeriesProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator holding at most maxYears tables.
func NewCachedProvider(inner domain.SeriesProvider, maxYears int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxYears),
		metrics: metrics,
	}
}

func (c *CachedProvider) FetchYear(ctx context.Context, year int) (*domain.SeriesTable, error) {
	if table, ok := c.cache.get(year); ok {
		c.metrics.TableCache.WithLabelValues("hit").Inc()
		return table, nil
	}
	c.metrics.TableCache.WithLabelValues("miss").Inc()

	table, err := c.inner.FetchYear(ctx, year)
	if err != nil {
		return nil, err
	}
	// Failed and empty fetches stay uncached so the next request retries the archive.
	if table.Len() > 0 {
		c.cache.put(year, table)
	}
	return table, nil
}

// lruCache is a thread-safe LRU of yearly tables.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[int]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	year  int
	table *domain.SeriesTable
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[int]*entry),
	}
}

func (c *lruCache) get(year int) (*domain.SeriesTable, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[year]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.table, true
}

func (c *lruCache) put(year int, table *domain.SeriesTable) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[year]; ok {
		e.table = table
		c.moveToFront(e)
		return
	}

	e := &entry{year: year, table: table}
	c.entries[year] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.year)
	c.unlink(c.tail)
}
