// Package archybrid implements the ARC-hybrid engine: §4.6. It runs the
// same adaptive T1/T2/B1/B2 policy as the direct ARC engine, but delegates
// the two real lists to existing engines instead of managing them itself:
// T1 to an LRU (short-term recency), T2 to an LFU (long-term frequency).
// Only the B1/B2 ghosts are owned directly.
package archybrid

import (
	"sync"

	"github.com/aiyer/polycache/engine/lfu"
	"github.com/aiyer/polycache/engine/lru"
	"github.com/aiyer/polycache/internal/list"
	"github.com/aiyer/polycache/policy"
)

type ghost[K comparable] struct {
	keys *list.List[K, struct{}]
	idx  map[K]list.Handle
}

func newGhost[K comparable]() *ghost[K] {
	return &ghost[K]{keys: list.New[K, struct{}](), idx: make(map[K]list.Handle)}
}

func (g *ghost[K]) has(key K) bool {
	_, ok := g.idx[key]
	return ok
}

func (g *ghost[K]) size() int { return g.keys.Len() }

func (g *ghost[K]) pushFront(key K) {
	h := g.keys.PushFront(key, struct{}{})
	g.idx[key] = h
}

func (g *ghost[K]) remove(key K) {
	if h, ok := g.idx[key]; ok {
		g.keys.Remove(h)
		delete(g.idx, key)
	}
}

func (g *ghost[K]) evictTail() {
	h, ok := g.keys.Back()
	if !ok {
		return
	}
	key := g.keys.Key(h)
	g.keys.Remove(h)
	delete(g.idx, key)
}

// Engine is the ARC-hybrid cache: T1 is delegated to an LRU sub-engine, T2
// to an LFU sub-engine, and B1/B2 ghosts are owned directly.
type Engine[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	p        int

	t1 *lru.Engine[K, V]
	t2 *lfu.Engine[K, V]
	b1 *ghost[K]
	b2 *ghost[K]
}

// New constructs an ARC-hybrid engine. Both the LRU and LFU sub-engines
// are given the full capacity: actual occupancy is bounded by the ARC
// replacement steps run on misses and ghost hits, not by each sub-engine's
// own capacity ceiling.
func New[K comparable, V any](capacity int) *Engine[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Engine[K, V]{
		capacity: capacity,
		t1:       lru.New[K, V](capacity),
		t2:       lfu.New[K, V](capacity),
		b1:       newGhost[K](),
		b2:       newGhost[K](),
	}
}

var _ policy.Policy[int, int] = (*Engine[int, int])(nil)

// Put inserts or overwrites key with value, running the ARC hit/ghost-hit/
// miss algorithm with T1 delegated to LRU and T2 to LFU.
func (e *Engine[K, V]) Put(key K, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.capacity <= 0 {
		return
	}

	if _, ok := e.t1.Get(key); ok {
		e.t1.Remove(key)
		e.t2.Put(key, value)
		return
	}
	if _, ok := e.t2.Get(key); ok {
		e.t2.Put(key, value)
		return
	}
	if e.b1.has(key) {
		e.adaptUpOnB1Hit()
		e.replace(key)
		e.b1.remove(key)
		e.t2.Put(key, value)
		return
	}
	if e.b2.has(key) {
		e.adaptDownOnB2Hit()
		e.replace(key)
		e.b2.remove(key)
		e.t2.Put(key, value)
		return
	}

	e.makeRoomForMiss(key)
	e.t1.Put(key, value)
}

// Get reports a hit in T1 (promoting the key to T2, first promotion) or
// T2 (refreshing its frequency). A ghost hit in B1/B2 still adapts p and
// runs REPLACE but is reported as a miss.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if v, ok := e.t1.Get(key); ok {
		e.t1.Remove(key)
		e.t2.Put(key, v)
		return v, true
	}
	if v, ok := e.t2.Get(key); ok {
		return v, true
	}
	if e.b1.has(key) {
		e.adaptUpOnB1Hit()
		e.replace(key)
		e.b1.remove(key)
		var zero V
		return zero, false
	}
	if e.b2.has(key) {
		e.adaptDownOnB2Hit()
		e.replace(key)
		e.b2.remove(key)
		var zero V
		return zero, false
	}
	var zero V
	return zero, false
}

// GetOrZero is the lossy convenience form of Get.
func (e *Engine[K, V]) GetOrZero(key K) V {
	v, _ := e.Get(key)
	return v
}

// Remove deletes key from whichever of the two sub-engines holds it.
func (e *Engine[K, V]) Remove(key K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.t1.Remove(key) {
		return true
	}
	return e.t2.Remove(key)
}

// EvictOne demotes a victim chosen by the same rule as REPLACE, pushing
// it into the corresponding ghost list, and returns the evicted key.
func (e *Engine[K, V]) EvictOne() (K, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var zero K
	if e.t1.Empty() && e.t2.Empty() {
		return zero, false
	}
	if e.t1.Size() > e.p || e.t2.Empty() {
		if key, ok := e.t1.EvictOne(); ok {
			e.b1.pushFront(key)
			if e.b1.size() > e.capacity {
				e.b1.evictTail()
			}
			return key, true
		}
	}
	if key, ok := e.t2.EvictOne(); ok {
		e.b2.pushFront(key)
		if e.b2.size() > e.capacity {
			e.b2.evictTail()
		}
		return key, true
	}
	return zero, false
}

// Size returns the number of live entries across both sub-engines.
func (e *Engine[K, V]) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t1.Size() + e.t2.Size()
}

// Empty reports whether both sub-engines hold no entries.
func (e *Engine[K, V]) Empty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t1.Empty() && e.t2.Empty()
}

// Purge discards all entries, real and ghost, and resets p to 0.
func (e *Engine[K, V]) Purge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.t1.Purge()
	e.t2.Purge()
	e.b1 = newGhost[K]()
	e.b2 = newGhost[K]()
	e.p = 0
}

func (e *Engine[K, V]) adaptUpOnB1Hit() {
	delta := maxInt(1, e.b2.size()/maxInt(1, e.b1.size()))
	e.p = minInt(e.p+delta, e.capacity)
}

func (e *Engine[K, V]) adaptDownOnB2Hit() {
	delta := maxInt(1, e.b1.size()/maxInt(1, e.b2.size()))
	e.p = maxInt(e.p-delta, 0)
}

// replace mirrors the direct ARC engine's REPLACE(x), but demotes via
// each sub-engine's own evictOne rather than manipulating a list directly.
// A no-key sentinel from a sub-engine (already empty) adds no ghost.
func (e *Engine[K, V]) replace(x K) {
	if e.t1.Size() > 0 && ((e.b2.has(x) && e.t1.Size() == e.p) || e.t1.Size() > e.p) {
		if key, ok := e.t1.EvictOne(); ok {
			e.b1.pushFront(key)
			if e.b1.size() > e.capacity {
				e.b1.evictTail()
			}
		}
		return
	}
	if key, ok := e.t2.EvictOne(); ok {
		e.b2.pushFront(key)
		if e.b2.size() > e.capacity {
			e.b2.evictTail()
		}
	}
}

func (e *Engine[K, V]) makeRoomForMiss(key K) {
	if e.t1.Size()+e.b1.size() == e.capacity {
		if e.t1.Size() < e.capacity {
			e.b1.evictTail()
			e.replace(key)
		} else {
			if k, ok := e.t1.EvictOne(); ok {
				e.b1.pushFront(k)
				if e.b1.size() > e.capacity {
					e.b1.evictTail()
				}
			}
		}
		return
	}
	total := e.t1.Size() + e.t2.Size() + e.b1.size() + e.b2.size()
	if total >= e.capacity {
		if total >= 2*e.capacity {
			e.b2.evictTail()
		}
		e.replace(key)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
