package compositor

import (
	"image"
	"sync"
	"sync/atomic"
)

// Composite is a reference-counted handle over a rendered badge strip.
// The cache holds one reference for as long as the strip is cached;
// every handle returned to a caller holds its own. The backing pixel
// buffer is released exactly once, when the last reference is gone, so
// eviction can never pull the image out from under an active reader.
type Composite struct {
	img     *image.NRGBA
	refs    atomic.Int32
	release sync.Once
}

// newComposite wraps a rendered strip with a single owning reference.
func newComposite(img *image.NRGBA) *Composite {
	c := &Composite{img: img}
	c.refs.Store(1)
	return c
}

// Image returns the rendered strip. The image is only valid while the
// caller still holds its reference.
func (c *Composite) Image() image.Image {
	if c.img == nil {
		return nil
	}
	return c.img
}

// Bounds returns the pixel bounds of the rendered strip.
func (c *Composite) Bounds() image.Rectangle {
	if c.img == nil {
		return image.Rectangle{}
	}
	return c.img.Bounds()
}

// weight is the eviction weight of the strip: RGBA bytes.
func (c *Composite) weight() int64 {
	b := c.img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// retain acquires an additional reference. It returns nil if the
// composite is already being torn down, in which case the caller must
// treat it as gone.
func (c *Composite) retain() *Composite {
	for {
		n := c.refs.Load()
		if n <= 0 {
			return nil
		}
		if c.refs.CompareAndSwap(n, n+1) {
			return c
		}
	}
}

// Release drops one reference. When the last reference is released the
// pixel buffer is freed; using the handle afterwards is invalid.
func (c *Composite) Release() {
	if c.refs.Add(-1) == 0 {
		c.release.Do(func() {
			c.img = nil
		})
	}
}
