// Command tripbench benchmarks sequential, goroutine, chained and
// multi-process execution of filter and sort over a CSV column.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/utkarsh5026/tripbench/internal/procpool"
	"github.com/utkarsh5026/tripbench/internal/report"
)

func main() {
	// Worker processes re-execute this binary and never reach the CLI.
	procpool.ServeIfWorker()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		report.Failed(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
