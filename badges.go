// Package badges is the icon resolution and caching engine behind
// media library badge overlays. It resolves icon images from a custom
// folder or the built-in bundle, composites them into cached badge
// strips, and caches per-item attribute snapshots, so the expensive
// parts of overlay production happen once per distinct input instead
// of once per request.
package badges

import (
	"context"
	"fmt"
	"image"

	"badge-engine/internal/compositor"
	"badge-engine/internal/iconindex"
	"badge-engine/internal/icons"
	"badge-engine/internal/imagecache"
	"badge-engine/internal/logging"
	"badge-engine/internal/snapshot"
	"badge-engine/internal/workers"
)

// IconType is the category of a badge icon.
type IconType = icons.Type

// Icon types, re-exported for hosts.
const (
	TypeLanguage         = icons.TypeLanguage
	TypeSubtitle         = icons.TypeSubtitle
	TypeChannel          = icons.TypeChannel
	TypeVideoFormat      = icons.TypeVideoFormat
	TypeResolution       = icons.TypeResolution
	TypeAudioCodec       = icons.TypeAudioCodec
	TypeVideoCodec       = icons.TypeVideoCodec
	TypeTag              = icons.TypeTag
	TypeCommunityRating  = icons.TypeCommunityRating
	TypeAspectRatio      = icons.TypeAspectRatio
	TypeParentalRating   = icons.TypeParentalRating
	TypeSource           = icons.TypeSource
	TypeFrameRate        = icons.TypeFrameRate
	TypeOriginalLanguage = icons.TypeOriginalLanguage
)

// LoadingMode selects which icon byte sources are consulted.
type LoadingMode = icons.LoadingMode

// Loading modes, re-exported for hosts.
const (
	LoadCustomThenBuiltIn = icons.LoadCustomThenBuiltIn
	LoadCustomOnly        = icons.LoadCustomOnly
	LoadBuiltInOnly       = icons.LoadBuiltInOnly
)

// IconGroup names the badges of one category to include in a strip.
type IconGroup = compositor.Group

// Composite is a reference-counted handle over a rendered badge strip.
type Composite = compositor.Composite

// Snapshot is the cached per-item attribute record.
type Snapshot = snapshot.Snapshot

// KeyIndex maps icon types to the icon names available from a source.
type KeyIndex = iconindex.KeyIndex

// Engine ties the engine's caches together behind one instance with
// explicit ownership: each cache is created by the Engine and torn
// down by Close.
type Engine struct {
	cfg       Config
	bytes     *imagecache.Cache
	templates *compositor.Compositor
	snapshots *snapshot.Cache
	index     *iconindex.Index
}

// New creates an engine from the given configuration. Zero-valued
// tunables are filled with defaults; an invalid loading mode or icon
// geometry is an error.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.UseVips {
		if err := compositor.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using pure-Go scaling: %v", err)
		}
	}

	e := &Engine{
		cfg:       cfg,
		bytes:     imagecache.New(cfg.IconFolder, cfg.IconCacheBytes, cfg.SlidingTTL, cfg.JanitorInterval),
		templates: compositor.New(cfg.TemplateCacheBytes, cfg.SlidingTTL, cfg.JanitorInterval),
		snapshots: snapshot.New(cfg.SnapshotMaxEntries, cfg.SlidingTTL, cfg.JanitorInterval),
		index:     iconindex.New(),
	}
	logging.Info("badge engine initialized (folder=%q mode=%s icon=%dpx pad=%dpx)",
		cfg.IconFolder, cfg.LoadingMode, cfg.IconSize, cfg.Padding)
	return e, nil
}

// Resolve returns the decoded icon image for the given name and type,
// consulting sources per mode. An empty mode uses the configured
// default; an unknown mode is an error. A nil image without error
// means the icon does not exist in any consulted source.
func (e *Engine) Resolve(ctx context.Context, name string, t IconType, mode LoadingMode) (image.Image, error) {
	switch mode {
	case "":
		mode = e.cfg.LoadingMode
	case LoadCustomThenBuiltIn, LoadCustomOnly, LoadBuiltInOnly:
	default:
		return nil, fmt.Errorf("invalid loading mode %q", mode)
	}
	return e.bytes.Resolve(ctx, name, t, mode)
}

// GetOrBuildTemplate returns the composite strip for the given icon
// groups, rendering it from the supplied already-resolved images on
// first request. The caller must Release the returned handle. A nil
// result without error means the request was empty or the render
// failed (logged, retried by the next call).
func (e *Engine) GetOrBuildTemplate(ctx context.Context, groups []IconGroup, images []image.Image) (*Composite, error) {
	return e.templates.GetOrBuild(ctx, groups, images, compositor.Layout{
		IconSize:  e.cfg.IconSize,
		Padding:   e.cfg.Padding,
		Vertical:  e.cfg.Vertical,
		Smoothing: e.cfg.Smoothing,
	})
}

// AvailableKeys returns the icon names available per type from the
// configured custom folder. Results are memoized until RefreshKeys or
// SetIconFolder.
func (e *Engine) AvailableKeys() KeyIndex {
	return e.index.AvailableKeys(e.bytes.Folder())
}

// EmbeddedKeys returns the icon names available per type from the
// built-in bundle.
func (e *Engine) EmbeddedKeys() KeyIndex {
	return iconindex.EmbeddedKeys()
}

// RefreshKeys forces a re-scan of the configured folder on the next
// AvailableKeys call.
func (e *Engine) RefreshKeys() {
	e.index.Refresh(e.bytes.Folder())
}

// Snapshot returns the cached attribute snapshot for a media item.
func (e *Engine) Snapshot(itemID string) (*Snapshot, bool) {
	return e.snapshots.Get(itemID)
}

// PutSnapshot stores or overwrites the snapshot for a media item.
func (e *Engine) PutSnapshot(itemID string, snap *Snapshot) {
	e.snapshots.Put(itemID, snap)
}

// InvalidateSnapshot removes one item's snapshot.
func (e *Engine) InvalidateSnapshot(itemID string) {
	e.snapshots.Invalidate(itemID)
}

// InvalidateAllSnapshots drops every cached snapshot.
func (e *Engine) InvalidateAllSnapshots() {
	e.snapshots.InvalidateAll()
}

// SetIconFolder reconfigures the custom icon folder. The icon byte
// cache is swapped atomically (in-flight resolves complete against the
// old instance) and the folder's key index memo is refreshed.
func (e *Engine) SetIconFolder(folder string) {
	old := e.bytes.Folder()
	e.bytes.SetFolder(folder)
	e.index.Refresh(old)
	e.index.Refresh(folder)
}

// ClearCaches drops every cached byte entry, strip, snapshot, and key
// index memo. Strips already handed to callers stay valid until
// released.
func (e *Engine) ClearCaches() {
	e.bytes.Flush()
	e.templates.Clear()
	e.snapshots.InvalidateAll()
	e.index.Clear()
	logging.Info("badge engine caches cleared")
}

// RenderParallelism returns the recommended number of concurrent
// render requests for the host's worker pool.
func (e *Engine) RenderParallelism() int {
	return workers.ForRender(0)
}

// IOParallelism returns the recommended number of concurrent icon
// resolutions for hosts that pre-warm the byte cache from the custom
// folder.
func (e *Engine) IOParallelism() int {
	return workers.ForIO(0)
}

// Close stops background maintenance and releases all cached data.
// The engine must not be used afterwards.
func (e *Engine) Close() {
	e.bytes.Close()
	e.templates.Close()
	e.snapshots.Close()
	if e.cfg.UseVips {
		compositor.ShutdownVips()
	}
}

func (c Config) validate() error {
	switch c.LoadingMode {
	case LoadCustomThenBuiltIn, LoadCustomOnly, LoadBuiltInOnly:
	default:
		return fmt.Errorf("invalid loading mode %q", c.LoadingMode)
	}
	if c.IconSize <= 0 {
		return fmt.Errorf("icon size must be positive, got %d", c.IconSize)
	}
	return nil
}
