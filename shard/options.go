package shard

import "github.com/aiyer/polycache/policy"

// Factory constructs one sub-cache given its capacity and shard index. The
// index is provided so a Factory can vary engine choice or parameters
// per shard if desired; most callers ignore it.
type Factory[K comparable, V any] func(shardCapacity, shardIndex int) policy.Policy[K, V]

// Options configures the sharded wrapper. Zero value is not usable: both
// TotalCapacity and Factory must be supplied.
type Options[K comparable, V any] struct {
	// TotalCapacity is the sum of every shard's capacity; shards are split
	// by internal/util.SplitCapacity so they sum back to exactly this.
	TotalCapacity int

	// ShardCount is the number of independent sub-caches. 0 picks a
	// default from internal/util.ReasonableShardCount.
	ShardCount int

	// Factory builds one sub-cache per shard. Required; New panics if nil.
	Factory Factory[K, V]

	// Metrics receives Hit/Miss/Evict/Size signals. Nil defaults to
	// NoopMetrics.
	Metrics Metrics
}
