package compositor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"

	"badge-engine/internal/logging"
	"badge-engine/internal/memcache"
	"badge-engine/internal/metrics"
)

// Compositor builds and caches composite badge strips. Identical
// requests share one cached strip keyed by content, and concurrent
// first requests for the same key share a single render.
type Compositor struct {
	mu    sync.RWMutex // guards store for the swap only
	store *memcache.Cache[*Composite]
	group singleflight.Group

	maxBytes        int64
	ttl             time.Duration
	janitorInterval time.Duration

	renders atomic.Int64
}

// New creates a compositor whose template cache holds at most maxBytes
// of rendered pixels with the given sliding TTL.
func New(maxBytes int64, ttl, janitorInterval time.Duration) *Compositor {
	cp := &Compositor{
		maxBytes:        maxBytes,
		ttl:             ttl,
		janitorInterval: janitorInterval,
	}
	cp.store = cp.newStore()
	return cp
}

func (cp *Compositor) newStore() *memcache.Cache[*Composite] {
	return memcache.New(cp.maxBytes, cp.ttl, cp.janitorInterval, func(key string, c *Composite) {
		// Drop the cache's reference; the buffer is freed when the
		// last outstanding caller reference is released.
		c.Release()
	})
}

// GetOrBuild returns the composite strip for the given icon groups and
// layout, rendering and caching it on first request. The caller owns
// the returned handle and must Release it. A nil result without error
// means no strip applies (empty request) or the render failed; render
// failures are logged, never cached, and retried by the next caller.
// The only returned error is the context's.
func (cp *Compositor) GetOrBuild(ctx context.Context, groups []Group, images []image.Image, layout Layout) (*Composite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(groups) == 0 || len(images) == 0 || layout.IconSize <= 0 {
		return nil, nil
	}

	key := CacheKey(groups, layout)

	cp.mu.RLock()
	store := cp.store
	cp.mu.RUnlock()

	if comp, ok := store.Get(key); ok {
		if h := comp.retain(); h != nil {
			metrics.TemplateCacheHits.Inc()
			return h, nil
		}
		// Evicted between lookup and retain; fall through to rebuild.
	}
	metrics.TemplateCacheMisses.Inc()

	ch := cp.group.DoChan(key, func() (interface{}, error) {
		// Another caller may have finished the render while this one
		// waited for the flight slot.
		if comp, ok := store.Get(key); ok {
			return comp, nil
		}
		comp, err := cp.render(images, layout)
		if err != nil {
			return nil, err
		}
		store.Set(key, comp, comp.weight())
		metrics.TemplateCacheBytes.Set(float64(store.Weight()))
		return comp, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			logging.Error("compositor: render failed for %d icons: %v", len(images), res.Err)
			metrics.TemplateRendersTotal.WithLabelValues("error").Inc()
			return nil, nil
		}
		comp := res.Val.(*Composite)
		if h := comp.retain(); h != nil {
			return h, nil
		}
		// The cache dropped its reference before this caller could
		// claim one: the strip is larger than the whole cache cap, or
		// a concurrent Clear raced the handoff. The render succeeded,
		// so the caller still gets a strip: a private, uncached copy
		// it solely owns.
		priv, err := cp.render(images, layout)
		if err != nil {
			logging.Error("compositor: render failed for %d icons: %v", len(images), err)
			metrics.TemplateRendersTotal.WithLabelValues("error").Inc()
			return nil, nil
		}
		return priv, nil
	case <-ctx.Done():
		// The in-flight render keeps running for the remaining
		// waiters; only this caller abandons it.
		return nil, ctx.Err()
	}
}

// render lays the icons out contiguously along the layout axis on a
// transparent canvas. Panics from bad inputs are recovered and
// surfaced as errors so a single corrupt icon cannot take down the
// serving goroutine.
func (cp *Compositor) render(images []image.Image, layout Layout) (comp *Composite, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	cp.renders.Add(1)
	start := time.Now()

	size := layout.IconSize
	axis := len(images)*size + (len(images)-1)*layout.Padding
	width, height := axis, size
	if layout.Vertical {
		width, height = size, axis
	}

	canvas := imaging.New(width, height, color.NRGBA{})
	for i, img := range images {
		icon := scaleIcon(img, size, layout.Smoothing)
		offset := i * (size + layout.Padding)
		at := image.Pt(offset, 0)
		if layout.Vertical {
			at = image.Pt(0, offset)
		}
		canvas = imaging.Paste(canvas, icon, at)
	}

	metrics.TemplateRenderDuration.Observe(time.Since(start).Seconds())
	metrics.TemplateRendersTotal.WithLabelValues("ok").Inc()
	logging.Debug("compositor: rendered %dx%d strip (%d icons) in %s",
		width, height, len(images), time.Since(start))

	return newComposite(canvas), nil
}

// scaleIcon resizes an icon to size x size, preferring the libvips
// path when it has been initialized.
func scaleIcon(img image.Image, size int, smoothing bool) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	if IsVipsAvailable() {
		if scaled, err := scaleWithVips(img, size); err == nil {
			return scaled
		} else {
			logging.Debug("compositor: vips scale failed, falling back: %v", err)
		}
	}
	filter := imaging.NearestNeighbor
	if smoothing {
		filter = imaging.Lanczos
	}
	return imaging.Resize(img, size, size, filter)
}

// Renders returns the number of renders performed since creation.
func (cp *Compositor) Renders() int64 {
	return cp.renders.Load()
}

// Len returns the number of cached strips.
func (cp *Compositor) Len() int {
	cp.mu.RLock()
	store := cp.store
	cp.mu.RUnlock()
	return store.Len()
}

// Clear atomically swaps in a fresh empty template cache. Handles
// already returned to callers stay valid until released.
func (cp *Compositor) Clear() {
	cp.mu.Lock()
	old := cp.store
	cp.store = cp.newStore()
	cp.mu.Unlock()

	old.Stop()
	old.Flush()
	metrics.TemplateCacheBytes.Set(0)
}

// Close stops the background janitor and releases all cached strips.
func (cp *Compositor) Close() {
	cp.mu.Lock()
	store := cp.store
	cp.mu.Unlock()
	store.Stop()
	store.Flush()
}
