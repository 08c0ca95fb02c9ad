package lfu

import "testing"

// capacity 3, key 3 is the only one never touched again after insertion,
// so it is evicted as the lowest-frequency entry even though it isn't the
// oldest.
func TestEngine_EvictsLowestFrequency(t *testing.T) {
	t.Parallel()

	e := New[int, string](3)
	e.Put(1, "A")
	e.Put(2, "B")
	e.Put(3, "C")
	e.Get(1)
	e.Get(2)
	e.Get(2)
	e.Put(4, "D")

	if _, ok := e.Get(3); ok {
		t.Fatal("3 (lowest frequency) must be evicted")
	}
	if v, ok := e.Get(1); !ok || v != "A" {
		t.Fatalf("1 must survive, got %v ok=%v", v, ok)
	}
	if v, ok := e.Get(2); !ok || v != "B" {
		t.Fatalf("2 must survive, got %v ok=%v", v, ok)
	}
	if v, ok := e.Get(4); !ok || v != "D" {
		t.Fatalf("4 must be present, got %v ok=%v", v, ok)
	}
}

func TestEngine_MinFreqTracksAcrossEviction(t *testing.T) {
	t.Parallel()

	e := New[string, int](2)
	e.Put("a", 1)
	e.Put("b", 2)
	e.Get("a") // a: freq 2, b: freq 1
	e.Put("c", 3)

	if _, ok := e.Get("b"); ok {
		t.Fatal("b must be evicted (freq 1 is the minimum)")
	}
	if _, ok := e.Get("a"); !ok {
		t.Fatal("a must survive")
	}
	if _, ok := e.Get("c"); !ok {
		t.Fatal("c must be present")
	}
}

func TestEngine_DecayAllFreqs(t *testing.T) {
	t.Parallel()

	e := New[string, int](4)
	e.Put("a", 1)
	for i := 0; i < 5; i++ {
		e.Get("a")
	}
	e.Put("b", 2)

	got := e.nodes["a"].freq
	if got != 6 {
		t.Fatalf("precondition: want freq 6 before decay, got %d", got)
	}

	e.DecayAllFreqs(2)
	if got := e.nodes["a"].freq; got != 4 {
		t.Fatalf("want freq 4 after decay by 2, got %d", got)
	}
	if got := e.nodes["b"].freq; got != 1 {
		t.Fatalf("freq must clamp at 1, got %d", got)
	}
}

func TestEngine_RemoveAndPurge(t *testing.T) {
	t.Parallel()

	e := New[string, int](4)
	e.Put("a", 1)
	e.Put("b", 2)

	if !e.Remove("a") {
		t.Fatal("remove a must succeed")
	}
	if e.Remove("a") {
		t.Fatal("second remove must be a no-op")
	}

	e.Purge()
	if !e.Empty() {
		t.Fatal("purge must empty the engine")
	}
	if _, ok := e.Get("b"); ok {
		t.Fatal("b must be gone after purge")
	}
}

func TestEngine_NonPositiveCapacityIsNoOp(t *testing.T) {
	t.Parallel()

	e := New[string, int](0)
	e.Put("a", 1)
	if _, ok := e.Get("a"); ok {
		t.Fatal("capacity<=0 must make every get a miss")
	}
}
