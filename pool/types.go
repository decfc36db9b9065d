package pool

import "context"

// ProcessFunc defines how individual tasks are processed in the worker pool.
// It takes a context for cancellation and a task of type T, returning a result of type R.
// A returned error halts further processing.
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// indexedTask pairs a task with its position in the input slice.
type indexedTask[T any] struct {
	index int
	task  T
}
