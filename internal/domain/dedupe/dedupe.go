// Package dedupe defines the in-flight idempotency guard for match runs.
//
// A match run for an organ is recorded when the run request is accepted and
// released when the run finishes. A second request arriving in between is
// reported as a duplicate instead of being enqueued again.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records in-flight run keys to keep runs at-most-once per organ.
type Deduper interface {
	// SeenAndRecord atomically checks if key is in flight and records it if
	// not. Returns true if key was already recorded, false if it was newly
	// recorded. This is the ONLY method for deduplication.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord releases a key, allowing the next run for it to proceed.
	// Called when a run completes (successfully or not) or when enqueueing
	// failed after the key was recorded.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryGuard implements Deduper with a bounded map. When the bound is
// reached the oldest recorded key is evicted FIFO; eviction order is tracked
// in a ring buffer so both operations stay O(1) amortized.
type inMemoryGuard struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // FIFO eviction ring, only used in bounded mode
	head    int      // index of the oldest live slot in order
	maxSize int      // 0 or negative = unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory guard with configuration
// options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	g := &inMemoryGuard{
		maxSize: 50_000,
	}

	for _, opt := range opts {
		opt(g)
	}

	g.seen = make(map[string]struct{})
	if g.maxSize > 0 {
		g.order = make([]string, 0, g.maxSize)
	}

	return g
}

// SeenAndRecord atomically checks if key is in flight and records it if not.
func (g *inMemoryGuard) SeenAndRecord(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.seen[key]; exists {
		return true
	}

	if g.maxSize > 0 && len(g.seen) >= g.maxSize {
		g.evictOldest()
	}

	g.seen[key] = struct{}{}
	if g.maxSize > 0 {
		g.order = append(g.order, key)
	}
	g.size.Add(1)
	return false
}

// Unrecord releases a key. The eviction ring keeps a dead slot until the
// slot reaches the head; the map is the source of truth.
func (g *inMemoryGuard) Unrecord(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.seen[key]; !exists {
		return
	}
	delete(g.seen, key)
	g.size.Add(-1)
}

// evictOldest drops the oldest still-live key. Must be called with g.mu
// held.
func (g *inMemoryGuard) evictOldest() {
	for g.head < len(g.order) {
		key := g.order[g.head]
		g.head++
		if _, live := g.seen[key]; live {
			delete(g.seen, key)
			g.size.Add(-1)
			break
		}
	}
	// Compact the ring once the dead prefix dominates.
	if g.head > 0 && g.head*2 >= len(g.order) {
		g.order = append(g.order[:0], g.order[g.head:]...)
		g.head = 0
	}
}

// Size returns the current number of in-flight keys.
func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
