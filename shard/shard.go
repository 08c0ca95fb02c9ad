// Package shard implements the hash-sharded fan-out wrapper: §4.7. It owns
// N independent sub-caches of the same kind, routes each key to exactly
// one by hash(key) mod N, and splits total capacity across them so their
// capacities sum back to exactly the configured total. The wrapper itself
// holds no lock: concurrency safety comes entirely from each shard's own
// engine, which already serializes its own state.
package shard

import (
	"github.com/aiyer/polycache/internal/util"
	"github.com/aiyer/polycache/policy"
)

// Wrapper fans a single Policy surface out across N independently locked
// sub-caches.
type Wrapper[K comparable, V any] struct {
	shards  []policy.Policy[K, V]
	metrics Metrics

	// hot per-shard hit/miss counters, each padded to its own cache line
	// so concurrent readers on different shards never false-share.
	hits   []util.PaddedAtomicUint64
	misses []util.PaddedAtomicUint64
}

// New constructs a sharded wrapper from opt. Panics if opt.Factory is nil,
// per the construction-time fault policy every engine follows for
// programmer errors (see lruk.New's k < 1 panic).
func New[K comparable, V any](opt Options[K, V]) *Wrapper[K, V] {
	if opt.Factory == nil {
		panic("shard: Factory must not be nil")
	}

	n := opt.ShardCount
	if n <= 0 {
		n = util.ReasonableShardCount()
	}
	metrics := opt.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	caps := util.SplitCapacity(opt.TotalCapacity, n)
	shards := make([]policy.Policy[K, V], n)
	for i, c := range caps {
		shards[i] = opt.Factory(c, i)
	}

	return &Wrapper[K, V]{
		shards:  shards,
		metrics: metrics,
		hits:    make([]util.PaddedAtomicUint64, n),
		misses:  make([]util.PaddedAtomicUint64, n),
	}
}

var _ policy.Policy[int, int] = (*Wrapper[int, int])(nil)

// Put inserts or overwrites key with value in its destination shard.
func (w *Wrapper[K, V]) Put(key K, value V) {
	w.shardFor(key).Put(key, value)
}

// Get returns key's value from its destination shard, reporting hit/miss
// through Metrics and a per-shard hot counter.
func (w *Wrapper[K, V]) Get(key K) (V, bool) {
	idx := util.ShardIndex(util.Hash64(key), len(w.shards))
	v, ok := w.shards[idx].Get(key)
	if ok {
		w.hits[idx].Add(1)
		w.metrics.Hit()
	} else {
		w.misses[idx].Add(1)
		w.metrics.Miss()
	}
	return v, ok
}

// ShardStats returns the observed hit and miss counts for shard i, for
// diagnosing load skew across shards.
func (w *Wrapper[K, V]) ShardStats(i int) (hits, misses uint64) {
	return w.hits[i].Load(), w.misses[i].Load()
}

// GetOrZero is the lossy convenience form of Get.
func (w *Wrapper[K, V]) GetOrZero(key K) V {
	v, _ := w.Get(key)
	return v
}

// Remove deletes key from its destination shard.
func (w *Wrapper[K, V]) Remove(key K) bool {
	return w.shardFor(key).Remove(key)
}

// EvictOne evicts one entry from the largest shard by resident size,
// breaking ties by shard index, and reports the eviction through Metrics.
func (w *Wrapper[K, V]) EvictOne() (K, bool) {
	best := -1
	bestSize := -1
	for i, s := range w.shards {
		if sz := s.Size(); sz > bestSize {
			bestSize = sz
			best = i
		}
	}
	var zero K
	if best < 0 || bestSize == 0 {
		return zero, false
	}
	key, ok := w.shards[best].EvictOne()
	if ok {
		w.metrics.Evict()
	}
	return key, ok
}

// Size returns the total number of resident entries across every shard.
func (w *Wrapper[K, V]) Size() int {
	total := 0
	for _, s := range w.shards {
		total += s.Size()
	}
	w.metrics.Size(total)
	return total
}

// Empty reports whether every shard holds no entries.
func (w *Wrapper[K, V]) Empty() bool {
	for _, s := range w.shards {
		if !s.Empty() {
			return false
		}
	}
	return true
}

// Purge discards all entries in every shard.
func (w *Wrapper[K, V]) Purge() {
	for _, s := range w.shards {
		s.Purge()
	}
}

// ShardCount returns the number of sub-caches.
func (w *Wrapper[K, V]) ShardCount() int { return len(w.shards) }

func (w *Wrapper[K, V]) shardFor(key K) policy.Policy[K, V] {
	idx := util.ShardIndex(util.Hash64(key), len(w.shards))
	return w.shards[idx]
}
