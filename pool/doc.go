// Package pool provides a small generic worker pool for running a batch of
// tasks across a fixed number of goroutines.
//
// The primary type is WorkerPool[T, R]. Process is a blocking parallel map:
// it hands tasks to whichever worker is idle, waits for every task to finish
// and returns the results in input order.
//
// # Basic Usage
//
//	ctx := context.Background()
//	tasks := []int{1, 2, 3, 4}
//	pool := NewWorkerPool[int, int](WithWorkerCount(4))
//	results, err := pool.Process(ctx, tasks, func(ctx context.Context, t int) (int, error) {
//	    return t * 2, nil
//	})
//
// # Rate Limiting
//
// Dispatch can be throttled so that tasks start at a bounded rate:
//
//	pool := NewWorkerPool[Chunk, Result](
//	    WithWorkerCount(4),
//	    WithRateLimit(50, 4), // 50 tasks/sec, burst of 4
//	)
//
// # Configuration Options
//
//   - WithWorkerCount(n): Set number of concurrent workers (default: GOMAXPROCS)
//   - WithTaskBuffer(n): Set task channel buffer size (default: worker count)
//   - WithRateLimit(tasksPerSecond, burst): Throttle task dispatch
//
// # Error Handling
//
// The pool uses fail-fast semantics: when any task returns an error,
// processing stops and the error is returned. There are no retries. Panics
// are recovered and converted into errors carrying the stack trace.
package pool
