// Package lfuaging implements the LFU-aging decorator: §4.4. It wraps an
// LFU engine and periodically decays all frequencies once the running
// average access count crosses a configured ceiling, so keys that were
// hot long ago stop pinning capacity forever.
package lfuaging

import (
	"sync"

	"github.com/aiyer/polycache/engine/lfu"
	"github.com/aiyer/polycache/policy"
)

// Engine wraps an LFU engine with periodic frequency aging.
type Engine[K comparable, V any] struct {
	mu               sync.Mutex
	base             *lfu.Engine[K, V]
	maxAverage       int
	curTotalAccesses int
	curAverage       int
}

// New constructs an aging LFU engine with the given capacity and
// maxAverage ceiling.
func New[K comparable, V any](capacity, maxAverage int) *Engine[K, V] {
	return &Engine[K, V]{
		base:       lfu.New[K, V](capacity),
		maxAverage: maxAverage,
	}
}

var _ policy.Policy[int, int] = (*Engine[int, int])(nil)

// Put inserts or overwrites key with value, then accounts for the access
// and ages the base engine's frequencies if the running average crossed
// maxAverage.
func (e *Engine[K, V]) Put(key K, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.base.Put(key, value)
	e.addAccessLocked()
}

// Get returns key's value, accounting for the access (and ageing if
// needed) only on a hit.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.base.Get(key)
	if ok {
		e.addAccessLocked()
	}
	return v, ok
}

// GetOrZero is the lossy convenience form of Get.
func (e *Engine[K, V]) GetOrZero(key K) V {
	v, _ := e.Get(key)
	return v
}

// Remove deletes key if present.
func (e *Engine[K, V]) Remove(key K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base.Remove(key)
}

// EvictOne evicts from the base LFU engine.
func (e *Engine[K, V]) EvictOne() (K, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base.EvictOne()
}

// Size returns the number of resident entries.
func (e *Engine[K, V]) Size() int { return e.base.Size() }

// Empty reports whether the engine holds no entries.
func (e *Engine[K, V]) Empty() bool { return e.base.Empty() }

// Purge discards all resident entries and resets the running average.
func (e *Engine[K, V]) Purge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.base.Purge()
	e.curTotalAccesses = 0
	e.curAverage = 0
}

// addAccessLocked accounts for one access and triggers decay once the
// running average crosses maxAverage.
func (e *Engine[K, V]) addAccessLocked() {
	e.curTotalAccesses++
	size := e.base.Size()
	if size < 1 {
		size = 1
	}
	e.curAverage = e.curTotalAccesses / size
	if e.curAverage > e.maxAverage {
		e.base.DecayAllFreqs(e.maxAverage / 2)
		e.curTotalAccesses /= 2
		e.curAverage /= 2
	}
}
