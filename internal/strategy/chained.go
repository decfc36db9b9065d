package strategy

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/tripbench/internal/task"
)

// Chained runs filter and sort as two strictly ordered phases, each on a
// single goroutine over the whole data set. The filter phase hands its
// result to the sort phase through a one-slot channel; the sort phase is only
// spawned after the filter goroutine has been joined, so it always sees the
// complete filtered slice and owns it exclusively.
//
// Filter runs phase one only, Sort runs phase two only on the input, and
// Pipeline runs both.
type Chained struct {
	cfg config
}

// NewChained creates a chained strategy.
func NewChained(opts ...Option) *Chained {
	return &Chained{cfg: newConfig(opts)}
}

func (c *Chained) Name() string { return string(KindChained) }

func (c *Chained) Run(ctx context.Context, op task.Operation, data []float64) (Outcome, error) {
	c.cfg.observe(c.Name(), op, Idle)

	if !op.Valid() {
		return Outcome{}, &WorkerFailure{Strategy: c.Name(), Err: task.ErrUnknownOperation}
	}

	var values []float64
	phases := 0

	if op == task.Filter || op == task.Pipeline {
		filtered, err := c.filterPhase(ctx, op, data)
		if err != nil {
			return Outcome{}, err
		}
		values = filtered
		phases++
	}

	if op == task.Sort || op == task.Pipeline {
		input := values
		if op == task.Sort {
			// data is borrowed; the sort phase needs a slice it owns
			input = slices.Clone(data)
		}
		sorted, err := c.sortPhase(ctx, op, input)
		if err != nil {
			return Outcome{}, err
		}
		values = sorted
		phases++
	}
	c.cfg.observe(c.Name(), op, AllComplete)

	out := Outcome{Chunks: phases}
	if c.cfg.aggregate {
		if values == nil {
			values = []float64{}
		}
		out.Values = values
	}
	return out, nil
}

// filterPhase spawns the single filter worker, joins it and returns what it published.
func (c *Chained) filterPhase(ctx context.Context, op task.Operation, data []float64) ([]float64, error) {
	handoff := make(chan []float64, 1)

	var g errgroup.Group
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		filtered, err := runGuarded(task.Filter, data, c.cfg.threshold)
		if err != nil {
			return &WorkerFailure{Strategy: c.Name(), Worker: 0, Err: err}
		}
		handoff <- filtered
		return nil
	})
	c.cfg.observe(c.Name(), op, Dispatched)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return <-handoff, nil
}

// sortPhase spawns the single sort worker over input, which it sorts in place.
func (c *Chained) sortPhase(ctx context.Context, op task.Operation, input []float64) ([]float64, error) {
	handoff := make(chan []float64, 1)

	var g errgroup.Group
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sortInPlace(input); err != nil {
			return &WorkerFailure{Strategy: c.Name(), Worker: 1, Err: err}
		}
		handoff <- input
		return nil
	})
	c.cfg.observe(c.Name(), op, Dispatched)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return <-handoff, nil
}

// sortInPlace sorts values without another copy, converting a panic into an error.
func sortInPlace(values []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	if sortHook != nil {
		sortHook(values)
	}
	slices.Sort(values)
	return nil
}

// sortHook lets tests observe the slice handed to the sort phase.
var sortHook func([]float64)
