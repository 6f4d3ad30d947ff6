// Package imagecache implements the icon byte cache: custom-folder and
// embedded-resource resolution with fallback chains, backed by a
// weight-bounded byte store.
package imagecache
