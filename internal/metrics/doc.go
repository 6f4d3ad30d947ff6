// Package metrics defines the Prometheus metrics exposed by the engine.
// Metrics are registered with the default registry; the host application
// decides whether and where to serve them.
package metrics
