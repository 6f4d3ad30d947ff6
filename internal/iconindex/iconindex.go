package iconindex

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"badge-engine/internal/icons"
	"badge-engine/internal/logging"
	"badge-engine/internal/metrics"
	"badge-engine/internal/resources"
)

// KeyIndex maps each icon type to the ordered list of lowercase icon
// names available for it from one source.
type KeyIndex map[icons.Type][]string

// Names returns the name list for t, or nil if the source has none.
func (k KeyIndex) Names(t icons.Type) []string {
	return k[t]
}

// Has reports whether name is available for t. Names are matched
// case-insensitively because the index stores lowercase names.
func (k KeyIndex) Has(t icons.Type, name string) bool {
	name = strings.ToLower(name)
	for _, n := range k[t] {
		if n == name {
			return true
		}
	}
	return false
}

// Index memoizes folder scans by folder path. Scans are cheap but the
// host requests the index once per rendered item, so even a directory
// listing per request adds up across a large library.
type Index struct {
	memo *gocache.Cache // lowercased folder path -> KeyIndex
}

// New creates an empty index. Folder scan results are memoized until
// Refresh or Clear is called for the path.
func New() *Index {
	return &Index{
		memo: gocache.New(gocache.NoExpiration, 0),
	}
}

// AvailableKeys returns the key index for the given folder, scanning
// it on first use and serving the memoized result afterwards. A
// missing or unreadable folder logs a warning and returns an empty
// index without memoizing it, so the folder is picked up as soon as it
// appears.
func (ix *Index) AvailableKeys(folder string) KeyIndex {
	memoKey := strings.ToLower(folder)
	if cached, found := ix.memo.Get(memoKey); found {
		return cached.(KeyIndex)
	}

	index, ok := scanFolder(folder)
	if ok {
		ix.memo.Set(memoKey, index, gocache.NoExpiration)
	}
	return index
}

// Refresh drops the memoized scan for one folder so the next
// AvailableKeys call re-reads it.
func (ix *Index) Refresh(folder string) {
	ix.memo.Delete(strings.ToLower(folder))
}

// Clear drops every memoized folder scan.
func (ix *Index) Clear() {
	ix.memo.Flush()
}

// scanFolder enumerates icon files directly in folder (non-recursive)
// and groups their names by icon type. The second result reports
// whether the folder could be read at all.
func scanFolder(folder string) (KeyIndex, bool) {
	index := make(KeyIndex)
	if folder == "" {
		return index, false
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		logging.Warn("icon index: cannot read folder %s: %v", folder, err)
		return index, false
	}
	metrics.KeyIndexScansTotal.WithLabelValues("folder").Inc()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !icons.SupportedExtension(ext) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		prefix, rest, found := strings.Cut(stem, ".")
		if !found || rest == "" {
			continue
		}
		t, ok := icons.TypeByPrefix(strings.ToLower(prefix))
		if !ok {
			// Unrecognized prefixes are user files we do not own.
			continue
		}
		index[t] = append(index[t], strings.ToLower(rest))
	}

	finishIndex(index)
	return index, true
}

var (
	embeddedOnce  sync.Once
	embeddedIndex KeyIndex
)

// EmbeddedKeys returns the key index of the built-in resource bundle.
// The bundle is immutable, so the index is computed once per process.
func EmbeddedKeys() KeyIndex {
	embeddedOnce.Do(func() {
		embeddedIndex = scanEmbedded()
	})
	return embeddedIndex
}

func scanEmbedded() KeyIndex {
	index := make(KeyIndex)
	metrics.KeyIndexScansTotal.WithLabelValues("embedded").Inc()

	for _, id := range resources.Names() {
		if !strings.HasPrefix(id, icons.EmbeddedPrefix) {
			continue
		}
		stem := strings.TrimPrefix(id, icons.EmbeddedPrefix)
		prefix, rest, found := strings.Cut(stem, "_")
		if !found || rest == "" {
			continue
		}
		t, ok := icons.TypeByPrefix(prefix)
		if !ok {
			continue
		}
		index[t] = append(index[t], strings.ToLower(rest))
	}

	finishIndex(index)
	return index
}

// finishIndex deduplicates and orders each name list. Resolution names
// are ordered longest first so a longest-match lookup in the caller
// prefers "2160p" over a shorter prefix like "2160".
func finishIndex(index KeyIndex) {
	for t, names := range index {
		seen := make(map[string]bool, len(names))
		unique := names[:0]
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				unique = append(unique, n)
			}
		}
		sort.Strings(unique)
		if t == icons.TypeResolution {
			sort.SliceStable(unique, func(i, j int) bool {
				return len(unique[i]) > len(unique[j])
			})
		}
		index[t] = unique
	}
}
