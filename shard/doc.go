// Package shard provides the sharded fan-out wrapper over the eviction
// engines in the engine/ subpackages.
//
// Design
//
//   - Concurrency: the wrapper holds no lock of its own. Each shard is an
//     independently constructed policy.Policy, and every engine in this
//     module already guards its own mutable state with one mutex. Routing
//     a key to its shard is the wrapper's entire job.
//
//   - Sharding: index = hash(key) mod shardCount, using
//     github.com/cespare/xxhash/v2 by way of internal/util.Hash64.
//     shardCount defaults to internal/util.ReasonableShardCount when not
//     given explicitly.
//
//   - Capacity: TotalCapacity is split across shards by
//     internal/util.SplitCapacity, so the first (total mod N) shards get
//     one more entry of capacity than the rest, and the per-shard
//     capacities always sum to exactly TotalCapacity.
//
//   - Construction: each shard is built by a caller-supplied Factory,
//     which picks the engine (LRU, LFU, ARC, ...) and wires any
//     decorator. This keeps the wrapper itself engine-agnostic.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; metrics/prom adapts this onto
//     Prometheus counters and gauges.
//
// Basic usage
//
//	w := shard.New[string, []byte](shard.Options[string, []byte]{
//	    TotalCapacity: 10_000,
//	    ShardCount:    16,
//	    Factory: func(capacity, _ int) policy.Policy[string, []byte] {
//	        return lru.New[string, []byte](capacity)
//	    },
//	})
//	w.Put("a", []byte("1"))
//	v, ok := w.Get("a")
package shard
