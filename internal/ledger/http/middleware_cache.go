package http

import (
	"sync"
	"time"
)

// responseCache keeps rendered view models in process memory for a short TTL
// so bursts of identical report requests do not refetch the upstream
// snapshots. Entries are cloned on the way out; callers may mutate freely.
type responseCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	value   any
	expires time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:   ttl,
		items: make(map[string]cacheItem),
	}
}

func (c *responseCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expires) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (c *responseCache) Set(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items[key] = cacheItem{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *responseCache) Bust() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items = make(map[string]cacheItem)
	c.mu.Unlock()
}

func cloneLedgerVM(src LedgerVM) LedgerVM {
	dst := src
	dst.Notices = append([]string(nil), src.Notices...)
	dst.Groups = make([]GroupVM, len(src.Groups))
	for i, group := range src.Groups {
		cloned := group
		cloned.Rows = append([]RowVM(nil), group.Rows...)
		dst.Groups[i] = cloned
	}
	return dst
}

func cloneTrialBalanceVM(src TrialBalanceVM) TrialBalanceVM {
	dst := src
	dst.Notices = append([]string(nil), src.Notices...)
	dst.Rows = append([]TrialBalanceRowVM(nil), src.Rows...)
	return dst
}
