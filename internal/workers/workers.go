package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the recommended number of concurrent callers for a
// given task type, respecting container CPU limits via GOMAXPROCS.
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks (strip rendering)
//   - 2.0 for I/O-bound tasks (icon folder reads)
//
// The limit parameter caps the count; use 0 for no limit. Can be
// overridden with the BADGE_RENDER_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("BADGE_RENDER_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForRender returns the recommended concurrency for strip rendering
// (CPU-bound, 1 per CPU).
func ForRender(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns the recommended concurrency for icon byte loading
// (I/O-bound, 2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}
