package pool

import (
	"context"
	"testing"
	"time"
)

func TestWorkerPool_RateLimit_BasicThroughput(t *testing.T) {
	// 15 tasks at 10/sec with a burst of 5: the last 10 wait ~1s in total.
	pool := NewWorkerPool[int, int](
		WithWorkerCount(5),
		WithRateLimit(10, 5),
	)

	tasks := make([]int, 15)
	for i := range tasks {
		tasks[i] = i
	}

	start := time.Now()
	results, err := pool.Process(context.Background(), tasks, func(ctx context.Context, task int) (int, error) {
		return task, nil
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(tasks) {
		t.Fatalf("expected %d results, got %d", len(tasks), len(results))
	}

	if elapsed < 900*time.Millisecond {
		t.Errorf("expected at least ~1s with rate limiting, got %v", elapsed)
	}
}

func TestWorkerPool_RateLimit_InvalidValuesIgnored(t *testing.T) {
	pool := NewWorkerPool[int, int](WithRateLimit(0, 5), WithRateLimit(5, 0))
	if pool.rateLimiter != nil {
		t.Fatal("expected no rate limiter for invalid settings")
	}
}

func TestWorkerPool_RateLimit_CancelWhileWaiting(t *testing.T) {
	pool := NewWorkerPool[int, int](
		WithWorkerCount(1),
		WithRateLimit(1, 1),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := pool.Process(ctx, []int{1, 2, 3, 4}, func(ctx context.Context, task int) (int, error) {
		return task, nil
	})
	if err == nil {
		t.Fatal("expected an error when the context expires while rate limited")
	}
}
