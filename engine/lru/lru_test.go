package lru

import (
	"sync"
	"testing"
)

// capacity 2, interleaved put/get must evict the true least-recently-used
// key, not insertion order.
func TestEngine_BasicEvictionScenario(t *testing.T) {
	t.Parallel()

	e := New[int, int](2)
	e.Put(1, 10)
	e.Put(2, 20)
	if v, ok := e.Get(1); !ok || v != 10 {
		t.Fatalf("get(1) want 10, got %v ok=%v", v, ok)
	}
	e.Put(3, 30) // evicts 2 (LRU after promoting 1)
	if _, ok := e.Get(2); ok {
		t.Fatal("2 must be evicted")
	}
	if v, ok := e.Get(3); !ok || v != 30 {
		t.Fatalf("get(3) want 30, got %v ok=%v", v, ok)
	}
	e.Put(4, 40) // evicts 1
	if _, ok := e.Get(1); ok {
		t.Fatal("1 must be evicted")
	}
	if v, ok := e.Get(3); !ok || v != 30 {
		t.Fatalf("get(3) want 30, got %v ok=%v", v, ok)
	}
	if v, ok := e.Get(4); !ok || v != 40 {
		t.Fatalf("get(4) want 40, got %v ok=%v", v, ok)
	}
}

func TestEngine_PutOverwriteIsIdempotent(t *testing.T) {
	t.Parallel()

	e := New[string, string](4)
	e.Put("k", "v")
	e.Put("k", "v")
	if v, ok := e.Get("k"); !ok || v != "v" {
		t.Fatalf("want v, got %v ok=%v", v, ok)
	}
}

func TestEngine_NonPositiveCapacityIsNoOp(t *testing.T) {
	t.Parallel()

	e := New[string, int](0)
	e.Put("a", 1)
	if _, ok := e.Get("a"); ok {
		t.Fatal("capacity<=0 must make every get a miss")
	}
	if e.Size() != 0 {
		t.Fatalf("size want 0, got %d", e.Size())
	}
}

func TestEngine_RemoveAndEvictOne(t *testing.T) {
	t.Parallel()

	e := New[string, int](3)
	e.Put("a", 1)
	e.Put("b", 2)
	e.Put("c", 3)

	if !e.Remove("b") {
		t.Fatal("remove b must succeed")
	}
	if e.Remove("b") {
		t.Fatal("second remove of b must be a no-op returning false")
	}

	k, ok := e.EvictOne()
	if !ok || k != "a" {
		t.Fatalf("evictOne want a (LRU), got %v ok=%v", k, ok)
	}
}

func TestEngine_PurgeClearsState(t *testing.T) {
	t.Parallel()

	e := New[string, int](4)
	e.Put("a", 1)
	e.Put("b", 2)
	e.Purge()

	if e.Size() != 0 || !e.Empty() {
		t.Fatalf("engine must be empty after purge, size=%d", e.Size())
	}
	if _, ok := e.Get("a"); ok {
		t.Fatal("purge must remove all keys")
	}
}

// Concurrent stress: size must stay within capacity and no corruption
// should occur after many goroutines race on put/get (§8.1).
func TestEngine_ConcurrentStress(t *testing.T) {
	e := New[int, int](64)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				k := (id*2000 + i) % 256
				e.Put(k, k)
				e.Get(k)
			}
		}(g)
	}
	wg.Wait()

	if e.Size() > 64 {
		t.Fatalf("size must stay within capacity, got %d", e.Size())
	}
}
