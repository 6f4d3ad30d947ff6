package memcache

import (
	"container/list"
	"sync"
	"time"

	"badge-engine/internal/logging"
)

// EvictFunc is called once for every entry removed from the cache,
// whether by weight pressure, expiration, Delete, or Flush.
type EvictFunc[V any] func(key string, value V)

type entry[V any] struct {
	key      string
	value    V
	weight   int64
	expireAt time.Time
}

// Cache is a weight-bounded in-memory cache with sliding expiration.
// Entries are kept in recency order; when the total weight exceeds the
// configured limit, the oldest-idle entries are removed first. Each
// access slides an entry's expiration forward by the full TTL.
//
// All methods are safe for concurrent use. Eviction callbacks run
// outside the cache lock, so they may call back into the cache.
type Cache[V any] struct {
	mu        sync.Mutex
	maxWeight int64
	ttl       time.Duration
	onEvict   EvictFunc[V]

	items  map[string]*list.Element
	order  *list.List // front = most recently used
	weight int64

	stopJanitor chan struct{}
	stopOnce    sync.Once
}

// New creates a cache holding at most maxWeight total weight, with a
// sliding TTL per entry. A maxWeight or ttl of zero disables that
// bound. If janitorInterval is positive, a background goroutine
// periodically compacts expired and over-weight entries until Stop is
// called. onEvict may be nil.
func New[V any](maxWeight int64, ttl, janitorInterval time.Duration, onEvict EvictFunc[V]) *Cache[V] {
	c := &Cache[V]{
		maxWeight:   maxWeight,
		ttl:         ttl,
		onEvict:     onEvict,
		items:       make(map[string]*list.Element),
		order:       list.New(),
		stopJanitor: make(chan struct{}),
	}
	if janitorInterval > 0 {
		go c.janitor(janitorInterval)
	}
	return c
}

// Get returns the value for key if present and not expired. A hit
// refreshes both the entry's recency and its expiration.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	now := time.Now()

	c.mu.Lock()
	el, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}
	e := el.Value.(*entry[V])
	if c.ttl > 0 && now.After(e.expireAt) {
		c.removeLocked(el)
		c.mu.Unlock()
		c.fireEvict(e)
		return zero, false
	}
	if c.ttl > 0 {
		e.expireAt = now.Add(c.ttl)
	}
	c.order.MoveToFront(el)
	v := e.value
	c.mu.Unlock()
	return v, true
}

// Set inserts or replaces the value for key with the given weight,
// then evicts oldest-idle entries until the cache is under its weight
// limit. Replacing an existing entry evicts the old value.
func (c *Cache[V]) Set(key string, value V, weight int64) {
	var evicted []*entry[V]

	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		old := el.Value.(*entry[V])
		c.removeLocked(el)
		evicted = append(evicted, old)
	}
	e := &entry[V]{
		key:    key,
		value:  value,
		weight: weight,
	}
	if c.ttl > 0 {
		e.expireAt = time.Now().Add(c.ttl)
	}
	c.items[key] = c.order.PushFront(e)
	c.weight += weight

	evicted = append(evicted, c.evictOverWeightLocked(-1)...)
	c.mu.Unlock()

	for _, e := range evicted {
		c.fireEvict(e)
	}
}

// Delete removes the entry for key, reporting whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	el, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return false
	}
	e := el.Value.(*entry[V])
	c.removeLocked(el)
	c.mu.Unlock()
	c.fireEvict(e)
	return true
}

// Flush removes every entry, firing the eviction callback for each.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	evicted := make([]*entry[V], 0, len(c.items))
	for el := c.order.Back(); el != nil; el = c.order.Back() {
		e := el.Value.(*entry[V])
		c.removeLocked(el)
		evicted = append(evicted, e)
	}
	c.mu.Unlock()

	for _, e := range evicted {
		c.fireEvict(e)
	}
}

// Len returns the number of entries currently cached.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Weight returns the total weight of all cached entries.
func (c *Cache[V]) Weight() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weight
}

// Compact removes expired entries and, if the cache is over its weight
// limit, a bounded batch of oldest-idle entries. It is the unit of
// work performed by the background janitor and may also be called
// directly.
func (c *Cache[V]) Compact() {
	now := time.Now()

	c.mu.Lock()
	var evicted []*entry[V]
	if c.ttl > 0 {
		for el := c.order.Back(); el != nil; {
			e := el.Value.(*entry[V])
			prev := el.Prev()
			if now.After(e.expireAt) {
				c.removeLocked(el)
				evicted = append(evicted, e)
			}
			el = prev
		}
	}
	// Trim at most a quarter of the remaining entries per pass so a
	// burst of inserts never stalls the janitor tick.
	batch := len(c.items)/4 + 1
	evicted = append(evicted, c.evictOverWeightLocked(batch)...)
	c.mu.Unlock()

	for _, e := range evicted {
		c.fireEvict(e)
	}
}

// Stop terminates the background janitor. The cache remains usable;
// expired entries are then only reclaimed on access or Compact.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopJanitor)
	})
}

// evictOverWeightLocked removes oldest-idle entries until the cache is
// under its weight limit, removing at most limit entries (unbounded if
// limit is negative). Caller must hold c.mu.
func (c *Cache[V]) evictOverWeightLocked(limit int) []*entry[V] {
	if c.maxWeight <= 0 {
		return nil
	}
	var evicted []*entry[V]
	for c.weight > c.maxWeight {
		if limit >= 0 && len(evicted) >= limit {
			break
		}
		el := c.order.Back()
		if el == nil {
			break
		}
		e := el.Value.(*entry[V])
		c.removeLocked(el)
		evicted = append(evicted, e)
	}
	return evicted
}

// removeLocked unlinks an element from both the map and recency list.
// Caller must hold c.mu.
func (c *Cache[V]) removeLocked(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(c.items, e.key)
	c.order.Remove(el)
	c.weight -= e.weight
}

// fireEvict invokes the eviction callback, recovering from panics so a
// misbehaving callback can never take down a serving goroutine.
func (c *Cache[V]) fireEvict(e *entry[V]) {
	if c.onEvict == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Error("memcache: eviction callback panicked for key %q: %v", e.key, r)
		}
	}()
	c.onEvict(e.key, e.value)
}

func (c *Cache[V]) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Compact()
		case <-c.stopJanitor:
			return
		}
	}
}
