package strategy

import (
	"context"

	"github.com/utkarsh5026/tripbench/internal/task"
)

// Sequential applies the operation to the whole data set on the calling
// goroutine. There is no partitioning and no concurrency.
type Sequential struct {
	cfg config
}

// NewSequential creates a sequential strategy.
func NewSequential(opts ...Option) *Sequential {
	return &Sequential{cfg: newConfig(opts)}
}

func (s *Sequential) Name() string { return string(KindSequential) }

func (s *Sequential) Run(ctx context.Context, op task.Operation, data []float64) (Outcome, error) {
	s.cfg.observe(s.Name(), op, Idle)

	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	values, err := runGuarded(op, data, s.cfg.threshold)
	if err != nil {
		return Outcome{}, &WorkerFailure{Strategy: s.Name(), Worker: 0, Err: err}
	}

	out := Outcome{Chunks: 1}
	if s.cfg.aggregate {
		out.Values = values
	}
	return out, nil
}
