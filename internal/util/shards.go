package util

import "runtime"

// ReasonableShardCount picks a practical default shard count based on CPU
// parallelism. Heuristic: nextPow2(2*GOMAXPROCS), clamped to [1..256].
// This sharply reduces lock contention without bloating memory overhead.
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	n := int(NextPow2(uint64(p * 2)))
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	return n
}

// ShardIndex maps a 64-bit hash to a shard index in [0, shards).
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}

// SplitCapacity divides total entries across n shards so the shard
// capacities sum exactly to total: the first (total mod n) shards receive
// ceil(total/n), the rest receive floor(total/n).
func SplitCapacity(total, n int) []int {
	if n <= 0 {
		return nil
	}
	base := total / n
	rem := total % n
	caps := make([]int, n)
	for i := 0; i < n; i++ {
		caps[i] = base
		if i < rem {
			caps[i]++
		}
	}
	return caps
}
