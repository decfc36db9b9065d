package strategy

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/tripbench/internal/cpu"
	"github.com/utkarsh5026/tripbench/internal/partition"
	"github.com/utkarsh5026/tripbench/internal/task"
)

// ThreadPool splits the data into one chunk per worker and runs each chunk on
// its own goroutine. Run returns only after every goroutine has been joined.
// Each goroutine reads only its chunk and writes only its own result slot, so
// no locking is involved.
type ThreadPool struct {
	workers int
	cfg     config
}

// NewThreadPool creates a thread-pool strategy with the given worker count.
func NewThreadPool(workers int, opts ...Option) (*ThreadPool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("threads: %w", partition.ErrInvalidWorkerCount)
	}
	return &ThreadPool{workers: workers, cfg: newConfig(opts)}, nil
}

func (t *ThreadPool) Name() string { return string(KindThreads) }

// Workers returns the number of goroutines spawned per invocation.
func (t *ThreadPool) Workers() int { return t.workers }

func (t *ThreadPool) Run(ctx context.Context, op task.Operation, data []float64) (Outcome, error) {
	t.cfg.observe(t.Name(), op, Idle)

	chunks, err := partition.Split(data, t.workers)
	if err != nil {
		return Outcome{}, err
	}

	results := make([][]float64, len(chunks))
	g, ctx := errgroup.WithContext(ctx)

	for i, chunk := range chunks {
		g.Go(func() error {
			return t.runChunk(ctx, i, op, chunk, &results[i])
		})
	}
	t.cfg.observe(t.Name(), op, Dispatched)

	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}
	t.cfg.observe(t.Name(), op, AllComplete)

	out := Outcome{Chunks: len(chunks)}
	if t.cfg.aggregate {
		out.Values = concat(results)
	}
	return out, nil
}

func (t *ThreadPool) runChunk(ctx context.Context, worker int, op task.Operation, chunk []float64, slot *[]float64) error {
	if t.cfg.pinWorkers {
		release, err := cpu.SetupWorkerAffinity(worker)
		defer release()
		if err != nil {
			t.cfg.logger.Debug("cpu pinning unavailable", "worker", worker, "err", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	values, err := runGuarded(op, chunk, t.cfg.threshold)
	if err != nil {
		return &WorkerFailure{Strategy: t.Name(), Worker: worker, Err: err}
	}
	*slot = values
	return nil
}
