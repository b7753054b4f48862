package blobsort

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestPoolLeaseLimit hammers the pool from many goroutines and verifies that
// no more than the pool's capacity of leases is ever outstanding.
func TestPoolLeaseLimit(t *testing.T) {
	const (
		capacity   = 4
		goroutines = 32
		iterations = 100
	)

	pool := newBufferPool(64, capacity)
	ctx := context.Background()

	var outstanding atomic.Int32
	var maxSeen atomic.Int32
	var wg sync.WaitGroup

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := 0; it < iterations; it++ {
				l, err := pool.acquire(ctx)
				if err != nil {
					t.Errorf("acquire: %v", err)
					return
				}
				n := outstanding.Add(1)
				for {
					old := maxSeen.Load()
					if n <= old || maxSeen.CompareAndSwap(old, n) {
						break
					}
				}
				outstanding.Add(-1)
				l.release()
			}
		}()
	}
	wg.Wait()

	if max := maxSeen.Load(); max > capacity {
		t.Errorf("observed %d outstanding leases, pool capacity is %d", max, capacity)
	}
}

// TestPoolBlocksWhenExhausted verifies that acquire blocks while all buffers
// are leased and wakes once a lease is released.
func TestPoolBlocksWhenExhausted(t *testing.T) {
	pool := newBufferPool(8, 1)

	held, err := pool.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded while pool exhausted, got %v", err)
	}

	held.release()
	l, err := pool.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	l.release()
}

// TestLeaseReleaseIdempotent verifies that a double release returns the
// buffer exactly once.
func TestLeaseReleaseIdempotent(t *testing.T) {
	const capacity = 2
	pool := newBufferPool(8, capacity)

	l, err := pool.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	l.release()
	l.release()

	// All buffers must be acquirable without blocking; a doubled return
	// would overflow the free list instead.
	for i := 0; i < capacity; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if _, err := pool.acquire(ctx); err != nil {
			cancel()
			t.Fatalf("acquire %d: %v", i, err)
		}
		cancel()
	}
	if len(pool.free) != 0 {
		t.Errorf("free list holds %d buffers after draining a pool of %d", len(pool.free), capacity)
	}
}

// TestPoolAcquireCancelled verifies that a cancelled context aborts a
// blocked acquire.
func TestPoolAcquireCancelled(t *testing.T) {
	pool := newBufferPool(8, 1)
	held, err := pool.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer held.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pool.acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected Canceled, got %v", err)
	}
}
