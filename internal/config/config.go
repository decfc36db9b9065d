// Package config holds tripbench settings. Values come from built-in
// defaults, then an optional YAML file, then TRIPBENCH_* environment
// variables, and finally command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/tripbench/internal/bench"
	"github.com/utkarsh5026/tripbench/internal/dataset"
	"github.com/utkarsh5026/tripbench/internal/task"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config is the full set of benchmark settings.
type Config struct {
	Input  string `yaml:"input"`
	Column string `yaml:"column"`

	// Workers is the chunk and worker count for the partitioned strategies.
	// 0 means one per CPU.
	Workers   int     `yaml:"workers"`
	Threshold float64 `yaml:"threshold"`

	Fractions  []float64        `yaml:"fractions"`
	Operations []task.Operation `yaml:"operations"`

	Aggregate    bool    `yaml:"aggregate"`
	PinWorkers   bool    `yaml:"pin_workers"`
	DispatchRate float64 `yaml:"dispatch_rate"`

	Output      string `yaml:"output"`
	MetricsFile string `yaml:"metrics_file"`
	Verbose     bool   `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Input:      "NYC.csv",
		Column:     dataset.DefaultColumn,
		Workers:    4,
		Threshold:  task.DefaultThreshold,
		Fractions:  append([]float64(nil), bench.DefaultFractions...),
		Operations: append([]task.Operation(nil), bench.DefaultOperations...),
		Output:     OutputTable,
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any) and
// the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path. Keys missing from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays TRIPBENCH_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TRIPBENCH_INPUT"); ok && v != "" {
		c.Input = v
	}
	if v, ok := lookup("TRIPBENCH_COLUMN"); ok && v != "" {
		c.Column = v
	}
	if v, ok := lookup("TRIPBENCH_WORKERS"); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRIPBENCH_WORKERS: %w", err)
		}
		c.Workers = i
	}
	if v, ok := lookup("TRIPBENCH_THRESHOLD"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TRIPBENCH_THRESHOLD: %w", err)
		}
		c.Threshold = f
	}
	if v, ok := lookup("TRIPBENCH_OUTPUT"); ok && v != "" {
		c.Output = strings.ToLower(v)
	}
	if v, ok := lookup("TRIPBENCH_METRICS_FILE"); ok && v != "" {
		c.MetricsFile = v
	}
	return nil
}

// ResolvedWorkers returns Workers, or the CPU count when Workers is 0.
func (c Config) ResolvedWorkers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input path must not be empty")
	}
	if c.Column == "" {
		return errors.New("column must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.DispatchRate < 0 {
		return fmt.Errorf("dispatch_rate must be >= 0, got %v", c.DispatchRate)
	}
	if len(c.Fractions) == 0 {
		return errors.New("at least one fraction is required")
	}
	for _, f := range c.Fractions {
		if !(f > 0 && f <= 1) {
			return fmt.Errorf("fraction %v: %w", f, bench.ErrInvalidFraction)
		}
	}
	if len(c.Operations) == 0 {
		return errors.New("at least one operation is required")
	}
	for _, op := range c.Operations {
		if !op.Valid() {
			return fmt.Errorf("%w: %d", task.ErrUnknownOperation, int(op))
		}
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputTable, OutputJSON, c.Output)
	}
	return nil
}
