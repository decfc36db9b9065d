// Package strategy implements the execution strategies being benchmarked:
// sequential, a goroutine per chunk, a chained filter-then-sort handoff, and a
// pool of worker processes.
//
// Every strategy moves through the same states for one invocation:
// Idle → Dispatched → AllComplete, after which the caller records the
// measurement (Measured). Sequential has no dispatch and goes from Idle
// straight to Measured.
package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utkarsh5026/tripbench/internal/procpool"
	"github.com/utkarsh5026/tripbench/internal/task"
)

// Strategy runs one operation over a data set and returns once all of its
// workers have completed.
type Strategy interface {
	// Name returns the strategy's short name, e.g. "threads".
	Name() string

	// Run applies op to data. data is borrowed read-only.
	Run(ctx context.Context, op task.Operation, data []float64) (Outcome, error)
}

// Outcome describes a finished invocation.
type Outcome struct {
	// Values holds the worker outputs concatenated in chunk order. It is only
	// populated when the strategy aggregates results.
	Values []float64
	// Chunks is the number of chunks dispatched (1 for unpartitioned strategies).
	Chunks int
}

// Kind names a strategy.
type Kind string

const (
	KindSequential Kind = "sequential"
	KindThreads    Kind = "threads"
	KindChained    Kind = "chained"
	KindProcesses  Kind = "processes"
)

// Kinds lists every strategy in report order.
var Kinds = []Kind{KindSequential, KindThreads, KindChained, KindProcesses}

// ParseKind parses a strategy name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// State is a step in the lifecycle of one strategy invocation.
type State int

const (
	Idle State = iota
	Dispatched
	AllComplete
	Measured
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatched:
		return "dispatched"
	case AllComplete:
		return "all-complete"
	case Measured:
		return "measured"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StateObserver is notified on every state transition.
type StateObserver func(strategy string, op task.Operation, s State)

// WorkerFailure reports a worker that panicked or returned an error. It is
// fatal to the invocation: the remaining workers are joined and no outcome is
// produced.
type WorkerFailure struct {
	Strategy string
	Worker   int
	Err      error
}

func (e *WorkerFailure) Error() string {
	return fmt.Sprintf("%s: worker %d failed: %v", e.Strategy, e.Worker, e.Err)
}

func (e *WorkerFailure) Unwrap() error {
	return e.Err
}

// Option configures a strategy.
type Option func(*config)

type config struct {
	threshold    float64
	aggregate    bool
	pinWorkers   bool
	dispatchRate float64
	command      procpool.CommandFunc
	observer     StateObserver
	logger       *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		threshold: task.DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithThreshold sets the filter threshold. Defaults to task.DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(c *config) {
		c.threshold = threshold
	}
}

// WithAggregate keeps worker outputs and returns them in Outcome.Values.
// Without it the outputs are computed and discarded, which is all the
// benchmark needs.
func WithAggregate(aggregate bool) Option {
	return func(c *config) {
		c.aggregate = aggregate
	}
}

// WithPinnedWorkers pins each thread-pool goroutine to its own CPU core.
func WithPinnedWorkers(pin bool) Option {
	return func(c *config) {
		c.pinWorkers = pin
	}
}

// WithDispatchRate throttles process-pool dispatch to n chunks per second.
func WithDispatchRate(n float64) Option {
	return func(c *config) {
		c.dispatchRate = n
	}
}

// WithCommand overrides how process-pool workers are started.
func WithCommand(fn procpool.CommandFunc) Option {
	return func(c *config) {
		c.command = fn
	}
}

// WithObserver registers a state transition callback.
func WithObserver(fn StateObserver) Option {
	return func(c *config) {
		c.observer = fn
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func (c *config) observe(name string, op task.Operation, s State) {
	c.logger.Debug("strategy state", "strategy", name, "operation", op.String(), "state", s.String())
	if c.observer != nil {
		c.observer(name, op, s)
	}
}

// New builds the strategy named by kind. workers is ignored by the
// strategies that do not partition.
func New(kind Kind, workers int, opts ...Option) (Strategy, error) {
	switch kind {
	case KindSequential:
		return NewSequential(opts...), nil
	case KindThreads:
		return NewThreadPool(workers, opts...)
	case KindChained:
		return NewChained(opts...), nil
	case KindProcesses:
		return NewProcessPool(workers, opts...)
	default:
		return nil, fmt.Errorf("unknown strategy %q", kind)
	}
}

// applyFn is the per-chunk work function; tests replace it to inject failures.
var applyFn = task.Apply

// concat joins chunk results in chunk order.
func concat(parts [][]float64) []float64 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
