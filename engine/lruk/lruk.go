// Package lruk implements the LRU-K admission decorator: §4.3. It wraps a
// plain LRU main cache with a history of reference counts, only admitting
// a key once it has been observed K times.
package lruk

import (
	"sync"

	"github.com/aiyer/polycache/engine/lru"
	"github.com/aiyer/polycache/policy"
)

// Engine promotes keys from a staging area into an LRU main cache only
// after their K-th observation, to avoid admitting scan-noise.
type Engine[K comparable, V any] struct {
	mu      sync.Mutex
	base    *lru.Engine[K, V]
	history *lru.Engine[K, int]
	staged  map[K]V
	k       int
}

// New constructs an LRU-K engine: capacity for the main cache,
// historyCapacity for the bounded reference-count history, and k (>= 1)
// the number of observations required before admission. Panics if k < 1,
// per §7 (a construction-time programmer fault, not a recoverable runtime
// condition).
func New[K comparable, V any](capacity, historyCapacity, k int) *Engine[K, V] {
	if k < 1 {
		panic("lruk: k must be >= 1")
	}
	return &Engine[K, V]{
		base:    lru.New[K, V](capacity),
		history: lru.New[K, int](historyCapacity),
		staged:  make(map[K]V),
		k:       k,
	}
}

var _ policy.Policy[int, int] = (*Engine[int, int])(nil)

// Get bumps key's history count. If key is already admitted, it is
// returned and promoted. If not, and the bump crosses the K-th
// observation, the staged value (if any) is admitted and returned.
// Otherwise it is a miss.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.base.Get(key); ok {
		e.bumpHistoryLocked(key)
		return v, true
	}
	count := e.bumpHistoryLocked(key)
	if count >= e.k {
		if v, ok := e.staged[key]; ok {
			delete(e.staged, key)
			e.history.Remove(key)
			e.base.Put(key, v)
			return v, true
		}
	}
	var zero V
	return zero, false
}

// GetOrZero is the lossy convenience form of Get.
func (e *Engine[K, V]) GetOrZero(key K) V {
	v, _ := e.Get(key)
	return v
}

// Put inserts or overwrites key with value. A key already in the main
// cache is overwritten directly; otherwise the value is staged and the
// history count bumped, admitting the key once it reaches K observations.
func (e *Engine[K, V]) Put(key K, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.base.Get(key); ok {
		e.base.Put(key, value)
		return
	}
	count := e.bumpHistoryLocked(key)
	e.staged[key] = value
	if count >= e.k {
		delete(e.staged, key)
		e.history.Remove(key)
		e.base.Put(key, value)
	}
}

// Remove deletes key from whichever of {main cache, staging} holds it.
func (e *Engine[K, V]) Remove(key K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.base.Remove(key) {
		return true
	}
	if _, ok := e.staged[key]; ok {
		delete(e.staged, key)
		e.history.Remove(key)
		return true
	}
	return false
}

// EvictOne evicts from the main cache.
func (e *Engine[K, V]) EvictOne() (K, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base.EvictOne()
}

// Size returns the number of admitted entries (staged, not-yet-admitted
// keys are not counted).
func (e *Engine[K, V]) Size() int { return e.base.Size() }

// Empty reports whether the main cache holds no entries.
func (e *Engine[K, V]) Empty() bool { return e.base.Empty() }

// Purge discards all resident and staged entries.
func (e *Engine[K, V]) Purge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.base.Purge()
	e.history.Purge()
	e.staged = make(map[K]V)
}

func (e *Engine[K, V]) bumpHistoryLocked(key K) int {
	count := e.history.GetOrZero(key) + 1
	e.history.Put(key, count)
	return count
}
