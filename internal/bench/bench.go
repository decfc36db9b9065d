// Package bench drives a strategy over growing prefixes of a data set and
// records one timed run per data size and operation.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/utkarsh5026/tripbench/internal/strategy"
	"github.com/utkarsh5026/tripbench/internal/task"
	"github.com/utkarsh5026/tripbench/internal/timing"
)

// DefaultFractions are the data-size fractions benchmarked by default.
var DefaultFractions = []float64{0.25, 0.50, 0.75, 1.00}

// DefaultOperations are run for every fraction, in this order.
var DefaultOperations = []task.Operation{task.Sort, task.Filter}

// ErrInvalidFraction is returned for fractions outside (0, 1].
var ErrInvalidFraction = errors.New("fraction must be in (0, 1]")

// Prefix returns the first floor(fraction*len(data)) elements of data.
// It is a prefix, not a sample, and shares data's backing array.
func Prefix(data []float64, fraction float64) ([]float64, error) {
	if !(fraction > 0 && fraction <= 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFraction, fraction)
	}
	n := int(fraction * float64(len(data)))
	return data[:n:n], nil
}

// Label formats a fraction as a whole percentage, e.g. "25%".
func Label(fraction float64) string {
	return fmt.Sprintf("%d%%", int(fraction*100))
}

// Row is one measurement.
type Row struct {
	DataSize  string
	Rows      int
	Operation task.Operation
	Elapsed   timing.Elapsed
}

// Report is the result of one driver run.
type Report struct {
	RunID    uuid.UUID
	Strategy string
	Workers  int
	Started  time.Time
	Rows     []Row
}

// Total returns the sum of all measured times.
func (r *Report) Total() time.Duration {
	var total time.Duration
	for _, row := range r.Rows {
		total += row.Elapsed.Duration()
	}
	return total
}

// Observer is told about progress as the driver runs.
type Observer interface {
	// SizeStarted is called before the operations for one fraction run.
	SizeStarted(label string, rows int)
	// OperationDone is called after each measured operation.
	OperationDone(label string, op task.Operation, elapsed timing.Elapsed)
}

// Driver runs a strategy over every fraction and operation.
type Driver struct {
	Strategy strategy.Strategy

	// Fractions defaults to DefaultFractions.
	Fractions []float64
	// Operations defaults to DefaultOperations.
	Operations []task.Operation

	Observer Observer
	// States, if set, receives the Measured transition after every row.
	States strategy.StateObserver
}

// Steps returns how many rows a run will produce.
func (d *Driver) Steps() int {
	return len(d.fractions()) * len(d.operations())
}

func (d *Driver) fractions() []float64 {
	if len(d.Fractions) == 0 {
		return DefaultFractions
	}
	return d.Fractions
}

func (d *Driver) operations() []task.Operation {
	if len(d.Operations) == 0 {
		return DefaultOperations
	}
	return d.Operations
}

// Run benchmarks data fraction by fraction, running every operation once per
// fraction. Any error aborts the run and no report is returned.
func (d *Driver) Run(ctx context.Context, data []float64) (*Report, error) {
	if d.Strategy == nil {
		return nil, errors.New("bench: no strategy")
	}

	fractions := d.fractions()
	for _, f := range fractions {
		if _, err := Prefix(nil, f); err != nil {
			return nil, err
		}
	}

	report := &Report{
		RunID:    uuid.New(),
		Strategy: d.Strategy.Name(),
		Workers:  workersOf(d.Strategy),
		Started:  time.Now(),
		Rows:     make([]Row, 0, d.Steps()),
	}

	for _, fraction := range fractions {
		subset, _ := Prefix(data, fraction)
		label := Label(fraction)

		if d.Observer != nil {
			d.Observer.SizeStarted(label, len(subset))
		}

		for _, op := range d.operations() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			elapsed, err := timing.Measure(func() error {
				_, err := d.Strategy.Run(ctx, op, subset)
				return err
			})
			if err != nil {
				return nil, fmt.Errorf("%s %s at %s: %w", report.Strategy, op, label, err)
			}

			report.Rows = append(report.Rows, Row{
				DataSize:  label,
				Rows:      len(subset),
				Operation: op,
				Elapsed:   elapsed,
			})

			if d.States != nil {
				d.States(report.Strategy, op, strategy.Measured)
			}
			if d.Observer != nil {
				d.Observer.OperationDone(label, op, elapsed)
			}
		}
	}

	return report, nil
}

func workersOf(s strategy.Strategy) int {
	if w, ok := s.(interface{ Workers() int }); ok {
		return w.Workers()
	}
	return 1
}
