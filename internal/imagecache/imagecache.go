package imagecache

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support

	"badge-engine/internal/icons"
	"badge-engine/internal/logging"
	"badge-engine/internal/memcache"
	"badge-engine/internal/metrics"
	"badge-engine/internal/resources"
)

// Cache resolves icon images by name and type, caching the encoded
// bytes of every successful read. Bytes are decoded on each retrieval;
// only the encoded form is cached.
//
// The cache consults the custom icon folder, the embedded bundle, or
// both, per the loading mode. Reconfiguring the folder swaps in a
// fresh store atomically, so in-flight resolves against the old store
// complete safely.
type Cache struct {
	mu     sync.RWMutex // guards folder and store for the swap only
	folder string
	store  *memcache.Cache[[]byte]

	maxBytes        int64
	ttl             time.Duration
	janitorInterval time.Duration
}

// New creates a byte cache reading custom icons from folder. An empty
// folder disables the custom source until SetFolder is called.
func New(folder string, maxBytes int64, ttl, janitorInterval time.Duration) *Cache {
	c := &Cache{
		folder:          folder,
		maxBytes:        maxBytes,
		ttl:             ttl,
		janitorInterval: janitorInterval,
	}
	c.store = c.newStore()
	if folder != "" {
		if _, err := os.Stat(folder); err != nil {
			logging.Warn("icon cache: custom icon folder %s not accessible: %v", folder, err)
		}
	}
	return c
}

func (c *Cache) newStore() *memcache.Cache[[]byte] {
	return memcache.New(c.maxBytes, c.ttl, c.janitorInterval, func(key string, b []byte) {
		metrics.IconCacheEvictions.Inc()
	})
}

// Resolve returns the decoded icon image for the given name and type,
// or (nil, nil) when no source yields one. The only returned error is
// the context's, on cancellation. Decode failures and file-system
// errors are swallowed: the candidate is treated as absent and the
// fallback chain continues.
func (c *Cache) Resolve(ctx context.Context, name string, t icons.Type, mode icons.LoadingMode) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || !t.Valid() {
		return nil, nil
	}

	c.mu.RLock()
	store, folder := c.store, c.folder
	c.mu.RUnlock()

	if mode != icons.LoadBuiltInOnly && folder != "" {
		img, err := c.resolveCustom(ctx, store, folder, t, name)
		if img != nil || err != nil {
			return img, err
		}
	}
	if mode == icons.LoadCustomOnly {
		return nil, nil
	}
	return c.resolveEmbedded(ctx, store, t, name)
}

func (c *Cache) resolveCustom(ctx context.Context, store *memcache.Cache[[]byte], folder string, t icons.Type, name string) (image.Image, error) {
	stem := icons.FolderCandidate(t, name)

	for _, ext := range icons.Extensions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key := stem + ext

		if data, found := store.Get(key); found {
			metrics.IconCacheHits.Inc()
			if img, ok := decode(data); ok {
				return img, nil
			}
			// Cached bytes that no longer decode stay cached; a
			// one-off decode failure must not force a re-read.
			continue
		}
		metrics.IconCacheMisses.Inc()

		data, err := os.ReadFile(filepath.Join(folder, key))
		if err != nil {
			if !os.IsNotExist(err) {
				logging.Debug("icon cache: cannot read %s: %v", key, err)
				metrics.IconLoadsTotal.WithLabelValues("folder", "error").Inc()
			}
			continue
		}
		if len(data) == 0 {
			// Empty reads are "not found", never cached.
			continue
		}
		metrics.IconLoadsTotal.WithLabelValues("folder", "ok").Inc()
		store.Set(key, data, int64(len(data)))
		metrics.IconCacheBytes.Set(float64(store.Weight()))

		if img, ok := decode(data); ok {
			return img, nil
		}
	}
	return nil, nil
}

func (c *Cache) resolveEmbedded(ctx context.Context, store *memcache.Cache[[]byte], t icons.Type, name string) (image.Image, error) {
	for _, key := range icons.EmbeddedCandidates(t, name) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if data, found := store.Get(key); found {
			metrics.IconCacheHits.Inc()
			if img, ok := decode(data); ok {
				return img, nil
			}
			continue
		}
		metrics.IconCacheMisses.Inc()

		data := resources.Read(key)
		if len(data) == 0 {
			continue
		}
		metrics.IconLoadsTotal.WithLabelValues("embedded", "ok").Inc()
		store.Set(key, data, int64(len(data)))
		metrics.IconCacheBytes.Set(float64(store.Weight()))

		if img, ok := decode(data); ok {
			return img, nil
		}
	}
	return nil, nil
}

// SetFolder reconfigures the custom icon folder, atomically swapping
// in a fresh empty store. The old store is flushed and its janitor
// stopped after the swap; resolves already holding the old store
// reference complete against it unaffected.
func (c *Cache) SetFolder(folder string) {
	c.mu.Lock()
	old := c.store
	c.folder = folder
	c.store = c.newStore()
	c.mu.Unlock()

	old.Stop()
	old.Flush()
	metrics.IconCacheBytes.Set(0)
	logging.Info("icon cache: custom icon folder set to %q, cache reset", folder)
}

// Folder returns the currently configured custom icon folder.
func (c *Cache) Folder() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.folder
}

// Flush drops every cached byte entry without touching the folder
// configuration.
func (c *Cache) Flush() {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()
	store.Flush()
	metrics.IconCacheBytes.Set(0)
}

// Len returns the number of cached byte entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	store := c.store
	c.mu.RUnlock()
	return store.Len()
}

// Close stops the background janitor and drops all entries.
func (c *Cache) Close() {
	c.mu.Lock()
	store := c.store
	c.mu.Unlock()
	store.Stop()
	store.Flush()
}

// decode decodes encoded image bytes, treating any failure as a miss.
func decode(data []byte) (image.Image, bool) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	return img, true
}
