// Package dedupe defines the interface for idempotency tracking.
package dedupe

// Option applies a configuration option to the deduper.
type Option func(*memoryDeduper)

// WithMaxSize bounds the number of keys kept in memory; the oldest key is
// evicted first. A size <= 0 means unbounded (no eviction).
func WithMaxSize(n int) Option {
	return func(d *memoryDeduper) {
		d.maxSize = n
	}
}
