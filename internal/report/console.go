package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/tripbench/internal/task"
	"github.com/utkarsh5026/tripbench/internal/timing"
)

// Console prints progress lines while a benchmark runs. It implements
// bench.Observer.
type Console struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewConsole creates a console observer writing to w. When showBar is true a
// progress bar over steps measurements is drawn on stderr.
func NewConsole(w io.Writer, steps int, showBar bool) *Console {
	c := &Console{w: w}
	if showBar && steps > 0 {
		c.bar = MakeProgressBar(steps)
	}
	return c
}

// Start announces a strategy run.
func (c *Console) Start(name string, workers int) {
	if workers > 1 {
		colorPrintf(c.w, Bold, "\nStarting %s analysis with %d workers...\n", name, workers)
		return
	}
	colorPrintf(c.w, Bold, "\nStarting %s analysis...\n", name)
}

// SizeStarted prints the header for one data-size fraction.
func (c *Console) SizeStarted(label string, rows int) {
	colorPrintf(c.w, Cyan, "\n--- Processing %s of data (%d rows) ---\n", label, rows)
	if c.bar != nil {
		c.bar.Describe(fmt.Sprintf("Processing %s", label))
	}
}

// OperationDone prints how long one operation took.
func (c *Console) OperationDone(label string, op task.Operation, elapsed timing.Elapsed) {
	_, _ = fmt.Fprintf(c.w, "%s completed in %s seconds.\n", op, elapsed)
	if c.bar != nil {
		_ = c.bar.Add(1)
	}
}

// Finish completes the progress bar, if any, and prints the closing line.
func (c *Console) Finish(name string) {
	if c.bar != nil {
		_ = c.bar.Finish()
	}
	colorPrintf(c.w, Green, "\n%s analysis complete.\n", name)
}

// Loaded reports the size of the loaded data set.
func Loaded(w io.Writer, path string, rows int) {
	colorPrintf(w, Green, "Dataset loaded successfully. Total rows: %d (%s)\n", rows, path)
}

// Failed prints an error line in red.
func Failed(w io.Writer, err error) {
	colorPrintf(w, Red, "ERROR: %v\n", err)
}

// MakeProgressBar creates the progress bar used while measuring.
func MakeProgressBar(steps int) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionSetDescription("Benchmarking"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
