package compositor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"badge-engine/internal/icons"
)

// Group names the badges of one category to include in a strip.
type Group struct {
	Type  icons.Type
	Names []string
}

// Layout holds the geometry of a composite strip.
type Layout struct {
	// IconSize is the square pixel size of each icon.
	IconSize int
	// Padding is the gap in pixels between consecutive icons.
	Padding int
	// Vertical lays icons top-to-bottom instead of left-to-right.
	Vertical bool
	// Smoothing selects high-quality resampling when scaling icons.
	Smoothing bool
}

// CacheKey derives the content key for a template request. Groups are
// canonicalized first: merged per type, types in their canonical
// order, names lowercased and sorted within each type. Two requests
// with the same semantic content and layout therefore collide on the
// same key regardless of input ordering.
func CacheKey(groups []Group, layout Layout) string {
	byType := make(map[icons.Type][]string, len(groups))
	for _, g := range groups {
		for _, n := range g.Names {
			byType[g.Type] = append(byType[g.Type], strings.ToLower(n))
		}
	}

	h := sha256.New()
	for _, t := range icons.All {
		names := byType[t]
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		fmt.Fprintf(h, "%s=%s;", t, strings.Join(names, ","))
	}
	fmt.Fprintf(h, "|%d|%d|%t", layout.IconSize, layout.Padding, layout.Vertical)
	return hex.EncodeToString(h.Sum(nil))
}
