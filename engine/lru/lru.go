// Package lru implements the recency-only (LRU) eviction engine: §4.1.
package lru

import (
	"sync"

	"github.com/aiyer/polycache/internal/list"
	"github.com/aiyer/polycache/policy"
)

// Engine is a classic move-to-front LRU cache, safe for concurrent use.
// The MRU end of the recency list is the head; the LRU end is the tail.
type Engine[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	idx      map[K]list.Handle
	recency  *list.List[K, V]
}

// New constructs an LRU engine with the given capacity. capacity <= 0
// disables insertion: every Put is a no-op and every Get misses.
func New[K comparable, V any](capacity int) *Engine[K, V] {
	return &Engine[K, V]{
		capacity: capacity,
		idx:      make(map[K]list.Handle),
		recency:  list.New[K, V](),
	}
}

var _ policy.Policy[int, int] = (*Engine[int, int])(nil)

// Put inserts or overwrites key with value, promoting it to MRU. If the
// key is new and the engine is full, the current LRU-end entry is
// evicted first.
func (e *Engine[K, V]) Put(key K, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.capacity <= 0 {
		return
	}
	if h, ok := e.idx[key]; ok {
		*e.recency.Value(h) = value
		e.recency.MoveToFront(h)
		return
	}
	if e.recency.Len() >= e.capacity {
		e.evictLocked()
	}
	e.idx[key] = e.recency.PushFront(key, value)
}

// Get returns key's value and promotes it to MRU, or reports a miss.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.idx[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.recency.MoveToFront(h)
	return *e.recency.Value(h), true
}

// GetOrZero is the lossy convenience form of Get; prefer Get when a miss
// must be distinguished from a legitimately-zero value.
func (e *Engine[K, V]) GetOrZero(key K) V {
	v, _ := e.Get(key)
	return v
}

// Remove deletes key if present.
func (e *Engine[K, V]) Remove(key K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.idx[key]
	if !ok {
		return false
	}
	e.recency.Remove(h)
	delete(e.idx, key)
	return true
}

// EvictOne removes and returns the current LRU-end key.
func (e *Engine[K, V]) EvictOne() (K, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evictLocked()
}

func (e *Engine[K, V]) evictLocked() (K, bool) {
	h, ok := e.recency.Back()
	if !ok {
		var zero K
		return zero, false
	}
	k := e.recency.Key(h)
	e.recency.Remove(h)
	delete(e.idx, k)
	return k, true
}

// Size returns the number of resident entries.
func (e *Engine[K, V]) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recency.Len()
}

// Empty reports whether the engine holds no entries.
func (e *Engine[K, V]) Empty() bool { return e.Size() == 0 }

// Purge discards all resident entries.
func (e *Engine[K, V]) Purge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.idx = make(map[K]list.Handle)
	e.recency = list.New[K, V]()
}
