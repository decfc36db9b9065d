package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/utkarsh5026/tripbench/internal/partition"
	"github.com/utkarsh5026/tripbench/internal/procpool"
	"github.com/utkarsh5026/tripbench/internal/task"
)

// ProcessPool splits the data into one chunk per worker and maps the chunks
// over a pool of isolated worker processes. The pool is started for each
// invocation and torn down before Run returns; startup and teardown are part
// of the measured time, as they are for any process pool used this way.
type ProcessPool struct {
	workers int
	cfg     config
}

// NewProcessPool creates a process-pool strategy with the given worker count.
func NewProcessPool(workers int, opts ...Option) (*ProcessPool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("processes: %w", partition.ErrInvalidWorkerCount)
	}
	return &ProcessPool{workers: workers, cfg: newConfig(opts)}, nil
}

func (p *ProcessPool) Name() string { return string(KindProcesses) }

// Workers returns the number of worker processes started per invocation.
func (p *ProcessPool) Workers() int { return p.workers }

func (p *ProcessPool) Run(ctx context.Context, op task.Operation, data []float64) (out Outcome, err error) {
	p.cfg.observe(p.Name(), op, Idle)

	chunks, err := partition.Split(data, p.workers)
	if err != nil {
		return Outcome{}, err
	}

	tasks := make([]task.Task, len(chunks))
	for i, chunk := range chunks {
		tasks[i] = task.Task{Op: op, Threshold: p.cfg.threshold, Values: chunk}
	}

	procs, err := procpool.Start(ctx, p.workers,
		procpool.WithCommand(p.cfg.command),
		procpool.WithDispatchRate(p.cfg.dispatchRate),
		procpool.WithLogger(p.cfg.logger),
	)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", p.Name(), err)
	}
	defer func() {
		if cerr := procs.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%s: shutdown: %w", p.Name(), cerr)
		}
	}()

	p.cfg.observe(p.Name(), op, Dispatched)
	results, err := procs.Map(ctx, tasks)
	if err != nil {
		worker := -1
		var remote *procpool.RemoteError
		if errors.As(err, &remote) {
			worker = remote.Worker
		}
		return Outcome{}, &WorkerFailure{Strategy: p.Name(), Worker: worker, Err: err}
	}
	p.cfg.observe(p.Name(), op, AllComplete)

	out = Outcome{Chunks: len(chunks)}
	if p.cfg.aggregate {
		out.Values = concat(results)
	}
	return out, nil
}
