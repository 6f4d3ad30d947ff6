package badges

import (
	"os"
	"strconv"
	"strings"
	"time"

	"badge-engine/internal/logging"
)

// Defaults for zero-valued Config fields.
const (
	DefaultIconSize           = 50
	DefaultPadding            = 5
	DefaultIconCacheBytes     = 32 << 20
	DefaultTemplateCacheBytes = 64 << 20
	DefaultSnapshotMaxEntries = 5000
	// DefaultSlidingTTL is generous relative to single-request render
	// latency so an entry handed to a reader is never near eviction.
	DefaultSlidingTTL      = 2 * time.Hour
	DefaultJanitorInterval = 10 * time.Minute
)

// Config holds the engine's tunables. The zero value is usable: New
// fills defaults for every unset field.
type Config struct {
	// IconFolder is the user-supplied custom icon folder. Empty
	// disables the custom source.
	IconFolder string

	// LoadingMode selects which byte sources Resolve consults by
	// default. Defaults to LoadCustomThenBuiltIn.
	LoadingMode LoadingMode

	// IconSize is the square pixel size of each icon in a strip.
	IconSize int

	// Padding is the gap in pixels between consecutive icons. Zero
	// selects the default; a negative value means no gap.
	Padding int

	// Vertical lays strips top-to-bottom instead of left-to-right.
	Vertical bool

	// Smoothing selects high-quality resampling when scaling icons.
	Smoothing bool

	// UseVips enables the libvips scaling path when available.
	UseVips bool

	// IconCacheBytes caps the icon byte cache weight.
	IconCacheBytes int64

	// TemplateCacheBytes caps the composite strip cache weight.
	TemplateCacheBytes int64

	// SnapshotMaxEntries caps the item snapshot cache entry count.
	SnapshotMaxEntries int

	// SlidingTTL is the idle expiration applied to all caches; each
	// access resets it.
	SlidingTTL time.Duration

	// JanitorInterval is how often each cache runs a compaction pass.
	// Zero selects the default; a negative value disables background
	// maintenance.
	JanitorInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.LoadingMode == "" {
		c.LoadingMode = LoadCustomThenBuiltIn
	}
	if c.IconSize == 0 {
		c.IconSize = DefaultIconSize
	}
	if c.Padding == 0 {
		c.Padding = DefaultPadding
	} else if c.Padding < 0 {
		c.Padding = 0
	}
	if c.IconCacheBytes == 0 {
		c.IconCacheBytes = DefaultIconCacheBytes
	}
	if c.TemplateCacheBytes == 0 {
		c.TemplateCacheBytes = DefaultTemplateCacheBytes
	}
	if c.SnapshotMaxEntries == 0 {
		c.SnapshotMaxEntries = DefaultSnapshotMaxEntries
	}
	if c.SlidingTTL == 0 {
		c.SlidingTTL = DefaultSlidingTTL
	}
	if c.JanitorInterval == 0 {
		c.JanitorInterval = DefaultJanitorInterval
	}
	return c
}

// ConfigFromEnv builds a Config from BADGE_* environment variables.
// Unset variables keep their defaults; unparsable values log a warning
// and keep the default rather than failing.
//
// Variables:
//   - BADGE_ICON_FOLDER: custom icon folder path
//   - BADGE_LOADING_MODE: "custom-then-builtin", "custom", "builtin"
//   - BADGE_ICON_SIZE, BADGE_ICON_PADDING: pixels; a padding of 0
//     means no gap between icons
//   - BADGE_VERTICAL, BADGE_SMOOTHING, BADGE_USE_VIPS: booleans
//   - BADGE_ICON_CACHE_BYTES, BADGE_TEMPLATE_CACHE_BYTES: bytes
//   - BADGE_SNAPSHOT_MAX: entry count
//   - BADGE_CACHE_TTL, BADGE_JANITOR_INTERVAL: Go durations
func ConfigFromEnv() Config {
	cfg := Config{
		IconFolder: os.Getenv("BADGE_ICON_FOLDER"),
	}

	if mode := os.Getenv("BADGE_LOADING_MODE"); mode != "" {
		switch LoadingMode(mode) {
		case LoadCustomThenBuiltIn, LoadCustomOnly, LoadBuiltInOnly:
			cfg.LoadingMode = LoadingMode(mode)
		default:
			logging.Warn("BADGE_LOADING_MODE %q not recognized, using default", mode)
		}
	}

	cfg.IconSize = envInt("BADGE_ICON_SIZE", 0)

	// An explicit 0 here means "no gap", which the config encodes as a
	// negative Padding so it is distinguishable from unset.
	if raw := os.Getenv("BADGE_ICON_PADDING"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			cfg.Padding = v
			if v == 0 {
				cfg.Padding = -1
			}
		} else {
			logging.Warn("failed to parse BADGE_ICON_PADDING=%q, using default", raw)
		}
	}
	cfg.Vertical = envBool("BADGE_VERTICAL")
	cfg.Smoothing = envBool("BADGE_SMOOTHING")
	cfg.UseVips = envBool("BADGE_USE_VIPS")
	cfg.IconCacheBytes = int64(envInt("BADGE_ICON_CACHE_BYTES", 0))
	cfg.TemplateCacheBytes = int64(envInt("BADGE_TEMPLATE_CACHE_BYTES", 0))
	cfg.SnapshotMaxEntries = envInt("BADGE_SNAPSHOT_MAX", 0)
	cfg.SlidingTTL = envDuration("BADGE_CACHE_TTL", 0)
	cfg.JanitorInterval = envDuration("BADGE_JANITOR_INTERVAL", 0)

	return cfg
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		logging.Warn("failed to parse %s=%q, using default", key, raw)
		return fallback
	}
	return v
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		logging.Warn("failed to parse %s=%q, using default", key, raw)
		return fallback
	}
	return v
}
