// Package memcache implements the weight-bounded, sliding-expiration
// cache shared by the icon byte cache, the composite template cache,
// and the item snapshot cache.
package memcache
