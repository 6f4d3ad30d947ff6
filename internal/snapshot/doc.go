// Package snapshot caches per-item attribute snapshots so icon-group
// selection does not re-inspect unchanged media items on every render.
package snapshot
