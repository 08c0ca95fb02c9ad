package shard

import (
	"testing"

	"github.com/aiyer/polycache/engine/lru"
	"github.com/aiyer/polycache/policy"
)

func lruFactory[K comparable, V any]() Factory[K, V] {
	return func(capacity, _ int) policy.Policy[K, V] {
		return lru.New[K, V](capacity)
	}
}

func TestNew_PanicsOnNilFactory(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("New must panic when Factory is nil")
		}
	}()
	New[string, int](Options[string, int]{TotalCapacity: 10})
}

func TestWrapper_CapacitySplitSumsToTotal(t *testing.T) {
	t.Parallel()

	var observed []int
	factory := func(capacity, _ int) policy.Policy[int, int] {
		observed = append(observed, capacity)
		return lru.New[int, int](capacity)
	}

	w := New[int, int](Options[int, int]{
		TotalCapacity: 103,
		ShardCount:    8,
		Factory:       factory,
	})
	if got := w.ShardCount(); got != 8 {
		t.Fatalf("want 8 shards, got %d", got)
	}
	if len(observed) != 8 {
		t.Fatalf("factory must be called once per shard, got %d calls", len(observed))
	}

	sum := 0
	for _, c := range observed {
		sum += c
	}
	if sum != 103 {
		t.Fatalf("shard capacities must sum to 103, got %d", sum)
	}
}

func TestWrapper_PutGetRoutesToDestinationShard(t *testing.T) {
	t.Parallel()

	w := New[string, int](Options[string, int]{
		TotalCapacity: 64,
		ShardCount:    4,
		Factory:       lruFactory[string, int](),
	})

	for i := 0; i < 200; i++ {
		key := string(rune('a' + i%26))
		w.Put(key, i)
	}
	if v, ok := w.Get("a"); !ok {
		t.Fatalf("want hit for key a, got miss (v=%v)", v)
	}
}

func TestWrapper_RemoveAndPurge(t *testing.T) {
	t.Parallel()

	w := New[string, int](Options[string, int]{
		TotalCapacity: 16,
		ShardCount:    2,
		Factory:       lruFactory[string, int](),
	})
	w.Put("x", 1)
	w.Put("y", 2)

	if !w.Remove("x") {
		t.Fatal("remove must succeed for a present key")
	}
	if _, ok := w.Get("x"); ok {
		t.Fatal("removed key must miss")
	}

	w.Purge()
	if !w.Empty() {
		t.Fatal("purge must empty every shard")
	}
}

func TestWrapper_SizeAggregatesAcrossShards(t *testing.T) {
	t.Parallel()

	w := New[int, int](Options[int, int]{
		TotalCapacity: 100,
		ShardCount:    4,
		Factory:       lruFactory[int, int](),
	})
	for i := 0; i < 40; i++ {
		w.Put(i, i)
	}
	if got := w.Size(); got != 40 {
		t.Fatalf("want total size 40, got %d", got)
	}
}

func TestWrapper_ShardStatsTracksHitsAndMisses(t *testing.T) {
	t.Parallel()

	w := New[string, int](Options[string, int]{
		TotalCapacity: 16,
		ShardCount:    2,
		Factory:       lruFactory[string, int](),
	})
	w.Put("x", 1)
	w.Get("x")      // hit
	w.Get("absent") // miss

	var totalHits, totalMisses uint64
	for i := 0; i < w.ShardCount(); i++ {
		h, m := w.ShardStats(i)
		totalHits += h
		totalMisses += m
	}
	if totalHits != 1 {
		t.Fatalf("want 1 total hit across shards, got %d", totalHits)
	}
	if totalMisses != 1 {
		t.Fatalf("want 1 total miss across shards, got %d", totalMisses)
	}
}

func TestWrapper_DefaultShardCountIsUsedWhenZero(t *testing.T) {
	t.Parallel()

	w := New[int, int](Options[int, int]{
		TotalCapacity: 64,
		Factory:       lruFactory[int, int](),
	})
	if w.ShardCount() < 1 {
		t.Fatal("default shard count must be at least 1")
	}
}
