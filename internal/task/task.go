// Package task holds the per-chunk operations a worker runs: filtering by a
// threshold and sorting ascending.
package task

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultThreshold is the trip duration, in seconds, above which values survive the filter.
const DefaultThreshold = 1000.0

// ErrUnknownOperation is returned for an Operation outside the known set.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation identifies the work applied to a chunk.
type Operation int

const (
	// Sort returns the chunk in ascending order.
	Sort Operation = iota
	// Filter keeps values strictly greater than the threshold.
	Filter
	// Pipeline filters and then sorts the surviving values.
	Pipeline
)

// String returns the label used in reports.
func (o Operation) String() string {
	switch o {
	case Sort:
		return "Sorting"
	case Filter:
		return "Filtering"
	case Pipeline:
		return "Filter+Sort"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Valid reports whether o is one of the known operations.
func (o Operation) Valid() bool {
	return o >= Sort && o <= Pipeline
}

// ParseOperation parses "sort", "filter" or "pipeline", case-insensitively.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sort", "sorting":
		return Sort, nil
	case "filter", "filtering":
		return Filter, nil
	case "pipeline", "filter+sort":
		return Pipeline, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
}

// MarshalText implements encoding.TextMarshaler using the lower-case name.
func (o Operation) MarshalText() ([]byte, error) {
	switch o {
	case Sort:
		return []byte("sort"), nil
	case Filter:
		return []byte("filter"), nil
	case Pipeline:
		return []byte("pipeline"), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int(o))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operation) UnmarshalText(text []byte) error {
	op, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// Task is one unit of work: an operation over a chunk of values.
type Task struct {
	Op        Operation
	Threshold float64
	Values    []float64
}

// Run applies the task's operation to its values.
func (t Task) Run() ([]float64, error) {
	return Apply(t.Op, t.Values, t.Threshold)
}

// FilterValues returns the values strictly greater than threshold, preserving order.
// The input is never modified.
func FilterValues(values []float64, threshold float64) []float64 {
	out := make([]float64, 0, len(values)/2)
	for _, v := range values {
		if v > threshold {
			out = append(out, v)
		}
	}
	return out
}

// SortValues returns an ascending copy of values.
func SortValues(values []float64) []float64 {
	out := slices.Clone(values)
	if out == nil {
		out = []float64{}
	}
	slices.Sort(out)
	return out
}

// Apply runs op over values.
func Apply(op Operation, values []float64, threshold float64) ([]float64, error) {
	switch op {
	case Sort:
		return SortValues(values), nil
	case Filter:
		return FilterValues(values, threshold), nil
	case Pipeline:
		filtered := FilterValues(values, threshold)
		slices.Sort(filtered)
		return filtered, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int(op))
	}
}
