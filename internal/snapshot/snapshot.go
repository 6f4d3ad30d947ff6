package snapshot

import (
	"sync"
	"time"

	"badge-engine/internal/memcache"
	"badge-engine/internal/metrics"
)

// Snapshot is the immutable per-item record of attribute values that
// feed icon-group selection. DateModified is stored as-is; the caller
// compares it against the live item to decide whether a hit is stale.
type Snapshot struct {
	AudioLanguages    []string
	SubtitleLanguages []string
	AudioCodecs       []string
	VideoCodecs       []string
	Tags              []string
	SourceTags        []string

	Channel        string
	VideoFormat    string
	Resolution     string
	AspectRatio    string
	ParentalRating string
	FrameRate      string

	Rating       *float64
	DateModified time.Time
}

// Cache stores the last-computed snapshot per media item identifier,
// bounded by a maximum entry count with oldest-idle eviction.
type Cache struct {
	mu    sync.RWMutex // guards store for the swap only
	store *memcache.Cache[*Snapshot]

	maxEntries      int
	ttl             time.Duration
	janitorInterval time.Duration
}

// New creates a snapshot cache holding at most maxEntries snapshots.
func New(maxEntries int, ttl, janitorInterval time.Duration) *Cache {
	c := &Cache{
		maxEntries:      maxEntries,
		ttl:             ttl,
		janitorInterval: janitorInterval,
	}
	c.store = c.newStore()
	return c
}

func (c *Cache) newStore() *memcache.Cache[*Snapshot] {
	// Entry count as weight: every snapshot weighs 1.
	return memcache.New[*Snapshot](int64(c.maxEntries), c.ttl, c.janitorInterval, nil)
}

// Get returns the cached snapshot for itemID, if any.
func (c *Cache) Get(itemID string) (*Snapshot, bool) {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()

	snap, ok := store.Get(itemID)
	if ok {
		metrics.SnapshotCacheHits.Inc()
	} else {
		metrics.SnapshotCacheMisses.Inc()
	}
	return snap, ok
}

// Put stores or overwrites the snapshot for itemID.
func (c *Cache) Put(itemID string, snap *Snapshot) {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()

	store.Set(itemID, snap, 1)
	metrics.SnapshotCacheCount.Set(float64(store.Len()))
}

// Invalidate removes the snapshot for one item, used when the host
// signals the item changed.
func (c *Cache) Invalidate(itemID string) {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()

	store.Delete(itemID)
	metrics.SnapshotCacheCount.Set(float64(store.Len()))
}

// InvalidateAll atomically swaps in a fresh empty store, used on bulk
// configuration changes.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	old := c.store
	c.store = c.newStore()
	c.mu.Unlock()

	old.Stop()
	old.Flush()
	metrics.SnapshotCacheCount.Set(0)
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()
	return store.Len()
}

// Close stops the background janitor and drops all snapshots.
func (c *Cache) Close() {
	c.mu.Lock()
	store := c.store
	c.mu.Unlock()
	store.Stop()
	store.Flush()
}
