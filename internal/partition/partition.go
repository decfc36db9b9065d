// Package partition splits an ordered sequence into contiguous chunks, one per worker.
package partition

import "errors"

// ErrInvalidWorkerCount is returned when a partition is requested for fewer than one worker.
var ErrInvalidWorkerCount = errors.New("partition: worker count must be at least 1")

// Span is a half-open index range [Start, End) into the partitioned sequence.
type Span struct {
	Start int
	End   int
}

// Len returns the number of elements covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Bounds computes n contiguous spans covering [0, length).
// Span sizes differ by at most one; the first length%n spans carry the extra element.
func Bounds(length, n int) ([]Span, error) {
	if n <= 0 {
		return nil, ErrInvalidWorkerCount
	}
	if length < 0 {
		length = 0
	}

	base, extra := length/n, length%n
	spans := make([]Span, n)

	start := 0
	for i := range n {
		size := base
		if i < extra {
			size++
		}
		spans[i] = Span{Start: start, End: start + size}
		start += size
	}

	return spans, nil
}

// Split divides seq into exactly n contiguous chunks of nearly equal size.
// Chunks are sub-slices of seq, not copies, and are capacity-clipped so an
// append on one chunk can never write into its neighbour. When len(seq) < n
// the trailing chunks are empty.
func Split[T any](seq []T, n int) ([][]T, error) {
	spans, err := Bounds(len(seq), n)
	if err != nil {
		return nil, err
	}

	chunks := make([][]T, n)
	for i, sp := range spans {
		if sp.Len() == 0 {
			chunks[i] = []T{}
			continue
		}
		chunks[i] = seq[sp.Start:sp.End:sp.End]
	}

	return chunks, nil
}
