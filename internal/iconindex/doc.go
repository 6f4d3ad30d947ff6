// Package iconindex enumerates which icon names are available per icon
// type from a custom folder or the built-in bundle, memoizing scan
// results per source.
package iconindex
