package strategy

import (
	"fmt"
	"runtime"

	"github.com/utkarsh5026/tripbench/internal/task"
)

// runGuarded runs one chunk, converting a panic into an error.
func runGuarded(op task.Operation, values []float64, threshold float64) (result []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()

	return applyFn(op, values, threshold)
}

// recoveredError formats a recovered panic value with the current stack.
func recoveredError(r any) error {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
}
