// Package dedupe defines the interface for idempotency tracking.
//
// Enrollment ingestion is deduplicated on the natural studentID|courseID key,
// which is how the no-duplicate-enrollment invariant is enforced at the edge.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// defaultMaxSize bounds the seen set when no option is given.
const defaultMaxSize = 50_000

// Deduper records seen keys to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records it
	// if not. Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key, allowing it to be retried. Used when a key
	// was recorded but its event failed to enqueue (backpressure).
	Unrecord(ctx context.Context, key string)

	// Size returns the current number of recorded keys.
	Size() int64
}

// memoryDeduper implements Deduper with a map plus an insertion-ordered
// queue for FIFO eviction in bounded mode.
type memoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	queue   []string // insertion order; may hold strays for unrecorded keys
	maxSize int
	size    atomic.Int64
}

// NewMemoryDeduper creates an in-memory deduper.
func NewMemoryDeduper(opts ...Option) Deduper {
	d := &memoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *memoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.queue = append(d.queue, key)
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *memoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	d.size.Add(-1)
	// The queue keeps a stray slot for the key; eviction skips it.
}

// evictOldest drops the oldest still-recorded key. Caller holds the lock.
func (d *memoryDeduper) evictOldest() {
	for len(d.queue) > 0 {
		key := d.queue[0]
		d.queue = d.queue[1:]
		if _, ok := d.seen[key]; ok {
			delete(d.seen, key)
			d.size.Add(-1)
			return
		}
	}
}

func (d *memoryDeduper) Size() int64 {
	return d.size.Load()
}
