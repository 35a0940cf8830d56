package dashboard

import (
	"container/list"
	"context"
	"sync"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// CachedService wraps a Service with an in-memory LRU of rendered views.
// Views are only cached while the reference is fixed; a live reference
// moves every window, so renders pass straight through.
type CachedService struct {
	*Service
	cache *lruCache
}

// NewCachedService creates a cache decorator around svc.
func NewCachedService(svc *Service, maxEntries int) *CachedService {
	return &CachedService{
		Service: svc,
		cache:   newLRUCache(maxEntries),
	}
}

// Render returns the cached view for sel when present. Failed renders are
// never cached. Cached views share their backing arrays and must be treated
// as read-only.
func (c *CachedService) Render(ctx context.Context, sel domain.Selection, transport string) (domain.View, error) {
	if c.reference.IsLive() {
		return c.Service.Render(ctx, sel, transport)
	}
	if v, ok := c.cache.get(sel); ok {
		c.metrics.ViewCache.WithLabelValues("hit").Inc()
		c.metrics.RenderRequests.WithLabelValues(transport, "success").Inc()
		return v, nil
	}
	c.metrics.ViewCache.WithLabelValues("miss").Inc()

	v, err := c.Service.Render(ctx, sel, transport)
	if err != nil {
		return v, err
	}
	c.cache.put(sel, v)
	return v, nil
}

// Len returns the number of cached views.
func (c *CachedService) Len() int { return c.cache.len() }

// lruCache is a thread-safe LRU of views keyed by selection. The front of
// order is the most recently used entry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List
	entries    map[domain.Selection]*list.Element
}

type cached struct {
	sel  domain.Selection
	view domain.View
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[domain.Selection]*list.Element),
	}
}

func (c *lruCache) get(sel domain.Selection) (domain.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[sel]
	if !ok {
		return domain.View{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached).view, true
}

func (c *lruCache) put(sel domain.Selection, view domain.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[sel]; ok {
		el.Value.(*cached).view = view
		c.order.MoveToFront(el)
		return
	}

	c.entries[sel] = c.order.PushFront(&cached{sel: sel, view: view})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cached).sel)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
