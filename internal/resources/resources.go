// Package resources bundles the built-in icon set shipped with the
// engine. Resources are addressed by identifier, e.g.
// "embedded_lang_eng"; the embedded filesystem acts as the load-time
// manifest for enumeration.
package resources

import (
	"embed"
	"sort"
	"strings"
)

//go:embed data
var bundle embed.FS

const (
	dataDir = "data"
	suffix  = ".png"
)

// Read returns the bytes of the built-in resource with the given
// identifier. A missing resource yields nil, not an error; callers
// treat an empty result as "not found" and continue their fallback
// chain.
func Read(id string) []byte {
	b, err := bundle.ReadFile(dataDir + "/" + id + suffix)
	if err != nil {
		return nil
	}
	return b
}

// Names returns the sorted identifiers of every built-in resource,
// without the image suffix.
func Names() []string {
	entries, err := bundle.ReadDir(dataDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), suffix))
	}
	sort.Strings(names)
	return names
}
