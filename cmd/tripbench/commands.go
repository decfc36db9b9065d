package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/tripbench/internal/config"
	"github.com/utkarsh5026/tripbench/internal/strategy"
	"github.com/utkarsh5026/tripbench/internal/task"
)

// flagValues receives the command-line flags. Only flags the user actually
// set are copied over the loaded configuration.
type flagValues struct {
	configPath   string
	input        string
	column       string
	workers      int
	threshold    float64
	fractions    []float64
	operations   []string
	aggregate    bool
	pinWorkers   bool
	dispatchRate float64
	output       string
	metricsFile  string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	flags := &flagValues{}
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "tripbench",
		Short: "Benchmark execution strategies for filtering and sorting trip durations",
		Long: `tripbench loads a numeric column from a CSV file and times filter and sort
over growing prefixes of it (25%, 50%, 75%, 100%) using one of several
execution strategies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&flags.input, "input", "i", cfg.Input, "CSV file to load")
	pf.StringVar(&flags.column, "column", cfg.Column, "numeric column to benchmark")
	pf.IntVarP(&flags.workers, "workers", "w", cfg.Workers, "chunks and workers for partitioned strategies (0 = NumCPU)")
	pf.Float64Var(&flags.threshold, "threshold", cfg.Threshold, "filter keeps values strictly greater than this")
	pf.Float64SliceVar(&flags.fractions, "fractions", cfg.Fractions, "data-size fractions to benchmark")
	pf.StringSliceVar(&flags.operations, "operations", []string{"sort", "filter"}, "operations per fraction: sort, filter, pipeline")
	pf.BoolVar(&flags.aggregate, "aggregate", false, "collect worker outputs instead of discarding them")
	pf.BoolVar(&flags.pinWorkers, "pin", false, "pin thread-pool workers to CPU cores")
	pf.Float64Var(&flags.dispatchRate, "dispatch-rate", 0, "limit process-pool dispatch to N chunks per second (0 = unlimited)")
	pf.StringVarP(&flags.output, "output", "o", cfg.Output, "output format: table or json")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	for _, kind := range strategy.Kinds {
		root.AddCommand(newStrategyCmd(kind, &cfg))
	}
	root.AddCommand(newAllCmd(&cfg))

	return root
}

func newStrategyCmd(kind strategy.Kind, cfg *config.Config) *cobra.Command {
	short := map[strategy.Kind]string{
		strategy.KindSequential: "Run every operation on the calling goroutine",
		strategy.KindThreads:    "Split the data across one goroutine per worker",
		strategy.KindChained:    "Filter on one goroutine, then hand off to a sorting goroutine",
		strategy.KindProcesses:  "Map chunks over a pool of worker processes",
	}

	return &cobra.Command{
		Use:   string(kind),
		Short: short[kind],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), *cfg, []strategy.Kind{kind}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func newAllCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every strategy and compare them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), *cfg, strategy.Kinds, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// resolveConfig layers defaults, the config file, the environment and the
// flags that were set explicitly, then validates the result.
func resolveConfig(cmd *cobra.Command, flags *flagValues) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input = flags.input
	}
	if changed("column") {
		cfg.Column = flags.column
	}
	if changed("workers") {
		cfg.Workers = flags.workers
	}
	if changed("threshold") {
		cfg.Threshold = flags.threshold
	}
	if changed("fractions") {
		cfg.Fractions = flags.fractions
	}
	if changed("operations") {
		ops := make([]task.Operation, 0, len(flags.operations))
		for _, name := range flags.operations {
			op, err := task.ParseOperation(name)
			if err != nil {
				return cfg, fmt.Errorf("--operations: %w", err)
			}
			ops = append(ops, op)
		}
		cfg.Operations = ops
	}
	if changed("aggregate") {
		cfg.Aggregate = flags.aggregate
	}
	if changed("pin") {
		cfg.PinWorkers = flags.pinWorkers
	}
	if changed("dispatch-rate") {
		cfg.DispatchRate = flags.dispatchRate
	}
	if changed("output") {
		cfg.Output = flags.output
	}
	if changed("metrics-file") {
		cfg.MetricsFile = flags.metricsFile
	}
	if changed("verbose") {
		cfg.Verbose = flags.verbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
