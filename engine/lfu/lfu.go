// Package lfu implements the frequency-based (LFU) eviction engine: §4.2.
package lfu

import (
	"sync"

	"github.com/aiyer/polycache/internal/list"
	"github.com/aiyer/polycache/policy"
)

type handle struct {
	freq int
	h    list.Handle
}

// Engine is a frequency-based LFU cache, safe for concurrent use. Entries
// with equal frequency are ordered by recency of insertion into that
// frequency's bucket (newest at the front); the tail of the minimum
// frequency bucket is the eviction candidate.
type Engine[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	minFreq  int
	nodes    map[K]handle
	buckets  map[int]*list.List[K, V]
}

// New constructs an LFU engine with the given capacity. capacity <= 0
// disables insertion: every Put is a no-op and every Get misses.
func New[K comparable, V any](capacity int) *Engine[K, V] {
	return &Engine[K, V]{
		capacity: capacity,
		minFreq:  1,
		nodes:    make(map[K]handle),
		buckets:  make(map[int]*list.List[K, V]),
	}
}

var (
	_ policy.Policy[int, int] = (*Engine[int, int])(nil)
	_ policy.Decayer          = (*Engine[int, int])(nil)
)

// Put inserts or overwrites key with value. An existing key has its value
// overwritten and its frequency promoted; a new key starts at frequency 1,
// evicting the current minimum-frequency candidate first if full.
func (e *Engine[K, V]) Put(key K, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.capacity <= 0 {
		return
	}
	if h, ok := e.nodes[key]; ok {
		b := e.buckets[h.freq]
		*b.Value(h.h) = value
		e.promoteLocked(key, h)
		return
	}
	if len(e.nodes) >= e.capacity {
		e.evictLocked()
	}
	e.insertLocked(key, value, 1)
	e.minFreq = 1
}

// Get returns key's value and promotes its frequency, or reports a miss.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.nodes[key]
	if !ok {
		var zero V
		return zero, false
	}
	v := *e.buckets[h.freq].Value(h.h)
	e.promoteLocked(key, h)
	return v, true
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
	h, ok := e.nodes[key]
	if !ok {
		return false
	}
	e.removeFromBucketLocked(key, h)
	delete(e.nodes, key)
	return true
}

// EvictOne removes and returns the current minimum-frequency eviction
// candidate.
func (e *Engine[K, V]) EvictOne() (K, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evictLocked()
}

// Size returns the number of resident entries.
func (e *Engine[K, V]) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.nodes)
}

// Empty reports whether the engine holds no entries.
func (e *Engine[K, V]) Empty() bool { return e.Size() == 0 }

// Purge discards all resident entries.
func (e *Engine[K, V]) Purge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nodes = make(map[K]handle)
	e.buckets = make(map[int]*list.List[K, V])
	e.minFreq = 1
}

// DecayAllFreqs reduces every resident entry's frequency by delta, clamped
// to a minimum of 1; delta < 1 is treated as 1. Runs atomically with respect to
// other operations (the whole pass holds the engine's lock).
func (e *Engine[K, V]) DecayAllFreqs(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if delta < 1 {
		delta = 1
	}
	for key, h := range e.nodes {
		v := *e.buckets[h.freq].Value(h.h)
		e.removeFromBucketLocked(key, h)
		newFreq := h.freq - delta
		if newFreq < 1 {
			newFreq = 1
		}
		e.insertLocked(key, v, newFreq)
	}
	e.recomputeMinFreqLocked()
}

func (e *Engine[K, V]) insertLocked(key K, value V, freq int) {
	b, ok := e.buckets[freq]
	if !ok {
		b = list.New[K, V]()
		e.buckets[freq] = b
	}
	h := b.PushFront(key, value)
	e.nodes[key] = handle{freq: freq, h: h}
}

func (e *Engine[K, V]) removeFromBucketLocked(key K, h handle) {
	b := e.buckets[h.freq]
	b.Remove(h.h)
	if b.Empty() {
		delete(e.buckets, h.freq)
		if h.freq == e.minFreq {
			e.recomputeMinFreqLocked()
		}
	}
}

func (e *Engine[K, V]) promoteLocked(key K, h handle) {
	v := *e.buckets[h.freq].Value(h.h)
	e.removeFromBucketLocked(key, h)
	e.insertLocked(key, v, h.freq+1)
}

// evictLocked removes the tail of the minimum-frequency bucket.
func (e *Engine[K, V]) evictLocked() (K, bool) {
	if len(e.nodes) == 0 {
		var zero K
		return zero, false
	}
	b, ok := e.buckets[e.minFreq]
	if !ok || b.Empty() {
		e.recomputeMinFreqLocked()
		b, ok = e.buckets[e.minFreq]
		if !ok || b.Empty() {
			var zero K
			return zero, false
		}
	}
	hnd, _ := b.Back()
	k := b.Key(hnd)
	b.Remove(hnd)
	delete(e.nodes, k)
	if b.Empty() {
		delete(e.buckets, e.minFreq)
		e.recomputeMinFreqLocked()
	}
	return k, true
}

// recomputeMinFreqLocked finds the smallest frequency with a non-empty
// bucket, or 1 if no buckets remain. The scan is O(distinct frequencies
// in use), which the concurrency model bounds in practice (§5).
func (e *Engine[K, V]) recomputeMinFreqLocked() {
	if len(e.buckets) == 0 {
		e.minFreq = 1
		return
	}
	min := -1
	for f, b := range e.buckets {
		if b.Empty() {
			continue
		}
		if min == -1 || f < min {
			min = f
		}
	}
	if min == -1 {
		min = 1
	}
	e.minFreq = min
}
