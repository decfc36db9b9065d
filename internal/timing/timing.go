// Package timing measures wall-clock time of a single synchronous call.
package timing

import (
	"fmt"
	"time"
)

// Elapsed is the wall-clock time taken by one measured call.
type Elapsed time.Duration

// Duration returns the elapsed time as a time.Duration.
func (e Elapsed) Duration() time.Duration {
	return time.Duration(e)
}

// Seconds returns the elapsed time in fractional seconds, never negative.
func (e Elapsed) Seconds() float64 {
	return max(time.Duration(e).Seconds(), 0)
}

// String formats the elapsed seconds to 4 decimal places.
func (e Elapsed) String() string {
	return fmt.Sprintf("%.4f", e.Seconds())
}

// Measure runs fn on the calling goroutine and returns how long it took.
// The start timestamp is taken immediately before the call and the end
// timestamp immediately after it returns. time.Now carries a monotonic clock
// reading, so the result is unaffected by wall-clock adjustments.
// If fn fails, the elapsed time is still returned alongside the error.
func Measure(fn func() error) (Elapsed, error) {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if elapsed < 0 {
		elapsed = 0
	}
	return Elapsed(elapsed), err
}
