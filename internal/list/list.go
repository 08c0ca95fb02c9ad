// Package list implements the L0 intrusive doubly-linked list substrate
// shared by every eviction engine in this module: LRU/ARC recency chains
// and LFU per-frequency buckets.
//
// Per the arena + integer index design (see the module's design notes),
// nodes live in a growable slice and prev/next links are int32 indices
// rather than pointers. Removed slots are recycled from a free list. This
// avoids the shared/weak-pointer cycle the original C++ implementation
// needed to break, and keeps "map size == list length" (see each engine's
// invariants) a matter of comparing two integers.
package list

// Handle addresses one resident node. Handles are arena indices starting
// at 0; a negative Handle is never valid. Callers obtain handles only from
// PushFront.
type Handle int32

const noHandle Handle = -1

type node[K comparable, V any] struct {
	key  K
	val  V
	prev Handle
	next Handle
}

// List is an intrusive, arena-backed doubly linked list. Front is the MRU
// end; Back is the LRU/eviction end. All operations are O(1).
type List[K comparable, V any] struct {
	arena []node[K, V]
	free  []Handle
	head  Handle
	tail  Handle
	size  int
}

// New returns an empty list.
func New[K comparable, V any]() *List[K, V] {
	return &List[K, V]{head: noHandle, tail: noHandle}
}

// Len reports the number of resident nodes.
func (l *List[K, V]) Len() int { return l.size }

// Empty reports whether the list has no resident nodes.
func (l *List[K, V]) Empty() bool { return l.size == 0 }

// Key returns the key stored at h.
func (l *List[K, V]) Key(h Handle) K { return l.arena[h].key }

// Value returns a pointer to the value stored at h, for in-place mutation.
func (l *List[K, V]) Value(h Handle) *V { return &l.arena[h].val }

// PushFront inserts a new node at the MRU end and returns its handle.
func (l *List[K, V]) PushFront(key K, val V) Handle {
	var h Handle
	if n := len(l.free); n > 0 {
		h = l.free[n-1]
		l.free = l.free[:n-1]
		l.arena[h] = node[K, V]{key: key, val: val}
	} else {
		h = Handle(len(l.arena))
		l.arena = append(l.arena, node[K, V]{key: key, val: val})
	}
	l.linkFront(h)
	l.size++
	return h
}

// MoveToFront relinks an already-resident node to the MRU end.
func (l *List[K, V]) MoveToFront(h Handle) {
	if l.head == h {
		return
	}
	l.unlink(h)
	l.linkFront(h)
}

// Remove detaches h from the list and recycles its slot. The handle must
// not be used again after this call.
func (l *List[K, V]) Remove(h Handle) {
	l.unlink(h)
	l.arena[h] = node[K, V]{} // drop references for GC
	l.free = append(l.free, h)
	l.size--
}

// Back returns the handle at the LRU end, or ok=false if the list is empty.
func (l *List[K, V]) Back() (Handle, bool) {
	if l.tail == noHandle {
		return noHandle, false
	}
	return l.tail, true
}

func (l *List[K, V]) linkFront(h Handle) {
	n := &l.arena[h]
	n.prev = noHandle
	n.next = l.head
	if l.head != noHandle {
		l.arena[l.head].prev = h
	}
	l.head = h
	if l.tail == noHandle {
		l.tail = h
	}
}

func (l *List[K, V]) unlink(h Handle) {
	n := &l.arena[h]
	if n.prev != noHandle {
		l.arena[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != noHandle {
		l.arena[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
}
