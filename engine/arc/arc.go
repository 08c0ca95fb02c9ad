// Package arc implements the direct ARC (Adaptive Replacement Cache) engine:
// §4.5. It maintains two real lists, T1 (recency) and T2 (frequency), plus
// two ghost lists, B1 and B2, that retain evicted keys without values purely
// as an adaptation signal. A scalar p tracks the target size of T1 and is
// nudged by ghost hits, letting the cache self-tune between recency-biased
// and frequency-biased workloads without operator intervention.
package arc

import (
	"sync"

	"github.com/aiyer/polycache/internal/list"
	"github.com/aiyer/polycache/policy"
)

// ghost is a key-only list used for B1/B2: it tracks membership and
// recency of eviction without retaining a value.
type ghost[K comparable] struct {
	keys *list.List[K, struct{}]
	idx  map[K]list.Handle
}

func newGhost[K comparable]() *ghost[K] {
	return &ghost[K]{
		keys: list.New[K, struct{}](),
		idx:  make(map[K]list.Handle),
	}
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

// evictTail drops the least-recently-ghosted key, if any.
func (g *ghost[K]) evictTail() {
	h, ok := g.keys.Back()
	if !ok {
		return
	}
	key := g.keys.Key(h)
	g.keys.Remove(h)
	delete(g.idx, key)
}

// Engine is the direct ARC cache: T1/T2 hold live entries, B1/B2 hold
// ghosts, and p is the adaptive target size of T1.
type Engine[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	p        int

	t1    *list.List[K, V]
	t2    *list.List[K, V]
	t1Idx map[K]list.Handle
	t2Idx map[K]list.Handle

	b1 *ghost[K]
	b2 *ghost[K]
}

// New constructs an ARC engine with the given total capacity, shared
// between T1 and T2.
func New[K comparable, V any](capacity int) *Engine[K, V] {
	return &Engine[K, V]{
		capacity: capacity,
		t1:       list.New[K, V](),
		t2:       list.New[K, V](),
		t1Idx:    make(map[K]list.Handle),
		t2Idx:    make(map[K]list.Handle),
		b1:       newGhost[K](),
		b2:       newGhost[K](),
	}
}

var _ policy.Policy[int, int] = (*Engine[int, int])(nil)

// Put inserts or overwrites key with value, running the full ARC
// hit/ghost-hit/miss algorithm.
func (e *Engine[K, V]) Put(key K, value V) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.capacity <= 0 {
		return
	}

	if h, ok := e.t1Idx[key]; ok {
		*e.t1.Value(h) = value
		e.moveT1ToT2(key, h)
		return
	}
	if h, ok := e.t2Idx[key]; ok {
		*e.t2.Value(h) = value
		e.t2.MoveToFront(h)
		return
	}
	if e.b1.has(key) {
		e.adaptUpOnB1Hit()
		e.replace(key)
		e.b1.remove(key)
		e.insertT2(key, value)
		return
	}
	if e.b2.has(key) {
		e.adaptDownOnB2Hit()
		e.replace(key)
		e.b2.remove(key)
		e.insertT2(key, value)
		return
	}

	e.makeRoomForMiss(key)
	e.insertT1(key, value)
}

// Get reports whether key is resident in T1 or T2; a ghost hit in B1/B2
// still adapts p and runs REPLACE but is reported as a miss, since ghosts
// carry no value to resurrect.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h, ok := e.t1Idx[key]; ok {
		v := *e.t1.Value(h)
		e.moveT1ToT2(key, h)
		return v, true
	}
	if h, ok := e.t2Idx[key]; ok {
		v := *e.t2.Value(h)
		e.t2.MoveToFront(h)
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

// Remove deletes key from whichever of {T1, T2} holds it. Ghost entries
// are not addressable by Remove; they carry no externally visible state.
func (e *Engine[K, V]) Remove(key K) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h, ok := e.t1Idx[key]; ok {
		e.t1.Remove(h)
		delete(e.t1Idx, key)
		return true
	}
	if h, ok := e.t2Idx[key]; ok {
		e.t2.Remove(h)
		delete(e.t2Idx, key)
		return true
	}
	return false
}

// EvictOne demotes the LRU end of whichever real list REPLACE would
// choose for an ordinary miss, pushing it to its ghost list, and returns
// the evicted key.
func (e *Engine[K, V]) EvictOne() (K, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var zero K
	if e.t1.Empty() && e.t2.Empty() {
		return zero, false
	}
	if e.t1.Len() > e.p || e.t2.Empty() {
		if h, ok := e.t1.Back(); ok {
			key := e.t1.Key(h)
			e.evictT1ToB1(key, h)
			return key, true
		}
	}
	if h, ok := e.t2.Back(); ok {
		key := e.t2.Key(h)
		e.evictT2ToB2(key, h)
		return key, true
	}
	return zero, false
}

// Size returns the number of live entries across T1 and T2.
func (e *Engine[K, V]) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t1.Len() + e.t2.Len()
}

// Empty reports whether both T1 and T2 hold no entries.
func (e *Engine[K, V]) Empty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t1.Empty() && e.t2.Empty()
}

// Purge discards all entries, real and ghost, and resets p to 0.
func (e *Engine[K, V]) Purge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.t1 = list.New[K, V]()
	e.t2 = list.New[K, V]()
	e.t1Idx = make(map[K]list.Handle)
	e.t2Idx = make(map[K]list.Handle)
	e.b1 = newGhost[K]()
	e.b2 = newGhost[K]()
	e.p = 0
}

func (e *Engine[K, V]) insertT1(key K, value V) {
	h := e.t1.PushFront(key, value)
	e.t1Idx[key] = h
}

func (e *Engine[K, V]) insertT2(key K, value V) {
	h := e.t2.PushFront(key, value)
	e.t2Idx[key] = h
}

func (e *Engine[K, V]) moveT1ToT2(key K, h list.Handle) {
	value := *e.t1.Value(h)
	e.t1.Remove(h)
	delete(e.t1Idx, key)
	e.insertT2(key, value)
}

// adaptUpOnB1Hit grows p toward T1, weighted by the relative sizes of the
// ghost lists: a bigger B2 relative to B1 means the frequency side has
// been shedding too fast, so T1 gets pushed harder.
func (e *Engine[K, V]) adaptUpOnB1Hit() {
	delta := maxInt(1, e.b2.size()/maxInt(1, e.b1.size()))
	e.p = minInt(e.p+delta, e.capacity)
}

func (e *Engine[K, V]) adaptDownOnB2Hit() {
	delta := maxInt(1, e.b1.size()/maxInt(1, e.b2.size()))
	e.p = maxInt(e.p-delta, 0)
}

// replace runs the REPLACE(x) subroutine: it decides whether T1 or T2
// donates a victim to its ghost list.
func (e *Engine[K, V]) replace(x K) {
	if e.t1.Len() > 0 && ((e.b2.has(x) && e.t1.Len() == e.p) || e.t1.Len() > e.p) {
		if h, ok := e.t1.Back(); ok {
			e.evictT1ToB1(e.t1.Key(h), h)
		}
		return
	}
	if h, ok := e.t2.Back(); ok {
		e.evictT2ToB2(e.t2.Key(h), h)
	}
}

func (e *Engine[K, V]) evictT1ToB1(key K, h list.Handle) {
	e.t1.Remove(h)
	delete(e.t1Idx, key)
	e.b1.pushFront(key)
	if e.b1.size() > e.capacity {
		e.b1.evictTail()
	}
}

func (e *Engine[K, V]) evictT2ToB2(key K, h list.Handle) {
	e.t2.Remove(h)
	delete(e.t2Idx, key)
	e.b2.pushFront(key)
	if e.b2.size() > e.capacity {
		e.b2.evictTail()
	}
}

// makeRoomForMiss enforces the shadow-quota and total-size bounds ahead of
// inserting a brand-new key into T1.
func (e *Engine[K, V]) makeRoomForMiss(key K) {
	if e.t1.Len()+e.b1.size() == e.capacity {
		if e.t1.Len() < e.capacity {
			e.b1.evictTail()
			e.replace(key)
		} else {
			if h, ok := e.t1.Back(); ok {
				e.evictT1ToB1(e.t1.Key(h), h)
			}
		}
		return
	}
	total := e.t1.Len() + e.t2.Len() + e.b1.size() + e.b2.size()
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
