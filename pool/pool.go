package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// WorkerPool is a generic worker pool with a fixed number of workers.
// A pool holds configuration only; every Process call starts its own workers
// and joins them before returning, so nothing is shared between calls.
//
// Type parameters:
//   - T: The input task type
//   - R: The result type
type WorkerPool[T any, R any] struct {
	workerCount int
	taskBuffer  int
	rateLimiter *rate.Limiter
}

// NewWorkerPool creates a new worker pool with the given options.
// Default configuration: workers = GOMAXPROCS, buffer = worker count.
func NewWorkerPool[T any, R any](opts ...WorkerPoolOption) *WorkerPool[T, R] {
	cfg := &workerPoolConfig{
		workerCount: runtime.GOMAXPROCS(0),
		taskBuffer:  0, // Will be set to workerCount if not specified
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer == 0 {
		cfg.taskBuffer = cfg.workerCount
	}

	return &WorkerPool[T, R]{
		workerCount: cfg.workerCount,
		taskBuffer:  cfg.taskBuffer,
		rateLimiter: cfg.rateLimiter,
	}
}

// WorkerCount returns the configured number of workers.
func (wp *WorkerPool[T, R]) WorkerCount() int {
	return wp.workerCount
}

// Process is a blocking parallel map. Tasks are queued in input order and
// each one is taken by whichever worker is free next, so a slow task does not
// hold back the tasks behind it. Every worker writes only the result slots of
// the tasks it took, so results come back in input order without a collector.
//
// The first task that fails or panics cancels the batch: queued tasks are
// dropped, running ones see ctx cancelled, and its error is returned once all
// workers have been joined. The returned slice is nil on error.
func (wp *WorkerPool[T, R]) Process(
	ctx context.Context,
	tasks []T,
	processFn ProcessFunc[T, R],
) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan indexedTask[T], wp.taskBuffer)
	results := make([]R, len(tasks))

	g.Go(func() error {
		defer close(queue)
		return enqueue(ctx, queue, tasks)
	})

	for range min(wp.workerCount, len(tasks)) {
		g.Go(func() error {
			return wp.worker(ctx, queue, results, processFn)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// enqueue feeds tasks to the workers until all are queued or ctx is done.
func enqueue[T any](ctx context.Context, queue chan<- indexedTask[T], tasks []T) error {
	for idx, task := range tasks {
		select {
		case queue <- indexedTask[T]{index: idx, task: task}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
