package shard

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aiyer/polycache/engine/lru"
	"github.com/aiyer/polycache/policy"
)

// total capacity 1000, 8 shards, 4 writer threads and 4 reader threads
// touching overlapping key ranges. Each key
// is partitioned to exactly one writer so that, once a writer's value for
// a key has landed, any successful read of that key must return it.
func TestRace_ShardedCorrectness(t *testing.T) {
	const (
		totalCapacity = 1000
		shardCount    = 8
		writers       = 4
		readers       = 4
		keysPerWriter = 2000
	)

	w := New[string, int](Options[string, int]{
		TotalCapacity: totalCapacity,
		ShardCount:    shardCount,
		Factory: func(capacity, _ int) policy.Policy[string, int] {
			return lru.New[string, int](capacity)
		},
	})

	deadline := time.Now().Add(300 * time.Millisecond)
	g, ctx := errgroup.WithContext(context.Background())

	for writerID := 0; writerID < writers; writerID++ {
		writerID := writerID
		g.Go(func() error {
			r := rand.New(rand.NewSource(int64(writerID) + 1))
			for time.Now().Before(deadline) {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				n := r.Intn(keysPerWriter)
				key := fmt.Sprintf("w%d:k%d", writerID, n)
				w.Put(key, writerID*1_000_000+n)
			}
			return nil
		})
	}

	for readerID := 0; readerID < readers; readerID++ {
		g.Go(func() error {
			r := rand.New(rand.NewSource(int64(readerID) + 100))
			for time.Now().Before(deadline) {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				writerID := r.Intn(writers)
				n := r.Intn(keysPerWriter)
				key := fmt.Sprintf("w%d:k%d", writerID, n)
				if v, ok := w.Get(key); ok {
					wantPrefix := writerID * 1_000_000
					if v < wantPrefix || v >= wantPrefix+keysPerWriter {
						return fmt.Errorf("key %s: got value %d from the wrong writer's partition", key, v)
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
