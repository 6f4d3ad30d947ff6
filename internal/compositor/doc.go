// Package compositor renders and caches composite badge strips.
// Strips are cached by a canonical content key and built under
// single-flight control so concurrent identical requests share one
// render.
package compositor
