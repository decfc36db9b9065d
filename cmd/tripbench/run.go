package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/utkarsh5026/tripbench/internal/bench"
	"github.com/utkarsh5026/tripbench/internal/config"
	"github.com/utkarsh5026/tripbench/internal/dataset"
	"github.com/utkarsh5026/tripbench/internal/metrics"
	"github.com/utkarsh5026/tripbench/internal/report"
	"github.com/utkarsh5026/tripbench/internal/strategy"
	"github.com/utkarsh5026/tripbench/internal/task"
)

// displayNames are used in the progress lines, e.g. "Starting threading analysis".
var displayNames = map[strategy.Kind]string{
	strategy.KindSequential: "sequential",
	strategy.KindThreads:    "threading",
	strategy.KindChained:    "chained threading",
	strategy.KindProcesses:  "multiprocessing",
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run loads the input once and benchmarks each strategy in turn.
func run(ctx context.Context, cfg config.Config, kinds []strategy.Kind, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.Verbose)
	silent := cfg.Output == config.OutputJSON
	workers := cfg.ResolvedWorkers()

	logger.Debug("configuration resolved",
		"input", cfg.Input,
		"column", cfg.Column,
		"workers", workers,
		"threshold", cfg.Threshold,
		"output", cfg.Output,
	)

	progress := stdout
	if silent {
		progress = io.Discard
	}

	_, _ = fmt.Fprintln(progress, "Loading dataset...")
	data, err := dataset.Load(cfg.Input, cfg.Column)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		logger.Warn("input has no rows; every measurement will be of empty chunks", "input", cfg.Input)
	}
	report.Loaded(progress, cfg.Input, len(data))

	opts := []strategy.Option{
		strategy.WithThreshold(cfg.Threshold),
		strategy.WithAggregate(cfg.Aggregate),
		strategy.WithPinnedWorkers(cfg.PinWorkers),
		strategy.WithDispatchRate(cfg.DispatchRate),
		strategy.WithLogger(logger),
	}

	reports := make([]*bench.Report, 0, len(kinds))
	for _, kind := range kinds {
		s, err := strategy.New(kind, workers, opts...)
		if err != nil {
			return err
		}

		driver := &bench.Driver{
			Strategy:   s,
			Fractions:  cfg.Fractions,
			Operations: cfg.Operations,
			States: func(name string, op task.Operation, st strategy.State) {
				logger.Debug("strategy state", "strategy", name, "operation", op.String(), "state", st.String())
			},
		}

		console := report.NewConsole(progress, driver.Steps(), !silent && isTerminal(stdout))
		driver.Observer = console

		name := displayNames[kind]
		console.Start(name, workersFor(kind, workers))

		r, err := driver.Run(ctx, data)
		if err != nil {
			return err
		}
		console.Finish(capitalize(name))

		if !silent {
			if err := report.Table(stdout, r); err != nil {
				return err
			}
		}
		reports = append(reports, r)
	}

	if silent {
		if err := report.JSON(stdout, reports...); err != nil {
			return err
		}
	} else if len(reports) > 1 {
		if err := report.Comparison(stdout, reports); err != nil {
			return err
		}
	}

	if cfg.MetricsFile != "" {
		rec := metrics.NewRecorder()
		for _, r := range reports {
			rec.Record(r)
		}
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		logger.Info("metrics written", "path", cfg.MetricsFile)
	}

	return nil
}

func workersFor(kind strategy.Kind, workers int) int {
	switch kind {
	case strategy.KindThreads, strategy.KindProcesses:
		return workers
	default:
		return 1
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
