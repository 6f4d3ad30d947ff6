// Package workers sizes concurrency hints for hosts driving the
// engine, based on available CPUs and environment overrides.
package workers
