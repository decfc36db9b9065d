package pool

import (
	"context"
	"fmt"
	"runtime"
)

// worker drains the queue, storing each result in its task's slot. The
// first failing task stops the worker and, through the errgroup, the pool.
func (wp *WorkerPool[T, R]) worker(
	ctx context.Context,
	queue <-chan indexedTask[T],
	results []R,
	processFn ProcessFunc[T, R],
) error {
	for {
		select {
		case task, ok := <-queue:
			if !ok {
				return nil
			}
			if wp.rateLimiter != nil {
				if err := wp.rateLimiter.Wait(ctx); err != nil {
					return err
				}
			}

			result, err := processWithRecovery(ctx, task.task, processFn)
			if err != nil {
				return fmt.Errorf("task %d: %w", task.index, err)
			}
			results[task.index] = result
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// processWithRecovery executes a task, converting a panic into an error so a
// single bad task cannot crash the process.
func processWithRecovery[T, R any](
	ctx context.Context,
	task T,
	processFn ProcessFunc[T, R],
) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return processFn(ctx, task)
}
