package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Icon byte cache metrics
var (
	IconCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_engine_icon_cache_hits_total",
			Help: "Total number of icon byte cache hits",
		},
	)

	IconCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_engine_icon_cache_misses_total",
			Help: "Total number of icon byte cache misses",
		},
	)

	IconCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_engine_icon_cache_evictions_total",
			Help: "Total number of icon byte cache evictions",
		},
	)

	IconCacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "badge_engine_icon_cache_bytes",
			Help: "Total weight of the icon byte cache in bytes",
		},
	)

	IconLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badge_engine_icon_loads_total",
			Help: "Total number of icon loads from a byte source",
		},
		[]string{"source", "status"}, // source: "folder" or "embedded"
	)
)

// Template compositor metrics
var (
	TemplateCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_engine_template_cache_hits_total",
			Help: "Total number of composite template cache hits",
		},
	)

	TemplateCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_engine_template_cache_misses_total",
			Help: "Total number of composite template cache misses",
		},
	)

	TemplateRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badge_engine_template_renders_total",
			Help: "Total number of composite template renders",
		},
		[]string{"status"},
	)

	TemplateRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "badge_engine_template_render_duration_seconds",
			Help:    "Composite template render duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	TemplateCacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "badge_engine_template_cache_bytes",
			Help: "Total weight of the composite template cache in bytes",
		},
	)
)

// Snapshot cache metrics
var (
	SnapshotCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_engine_snapshot_cache_hits_total",
			Help: "Total number of item snapshot cache hits",
		},
	)

	SnapshotCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "badge_engine_snapshot_cache_misses_total",
			Help: "Total number of item snapshot cache misses",
		},
	)

	SnapshotCacheCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "badge_engine_snapshot_cache_count",
			Help: "Number of item snapshots currently cached",
		},
	)
)

// Key index metrics
var (
	KeyIndexScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badge_engine_key_index_scans_total",
			Help: "Total number of key index scans",
		},
		[]string{"source"}, // "folder" or "embedded"
	)
)
