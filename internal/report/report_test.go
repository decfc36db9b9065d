package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/utkarsh5026/tripbench/internal/bench"
	"github.com/utkarsh5026/tripbench/internal/task"
	"github.com/utkarsh5026/tripbench/internal/timing"
)

func init() {
	color.NoColor = true
}

func ms(n float64) timing.Elapsed {
	return timing.Elapsed(time.Duration(n * float64(time.Millisecond)))
}

func sampleReport(name string, workers int, scale float64) *bench.Report {
	return &bench.Report{
		RunID:    uuid.New(),
		Strategy: name,
		Workers:  workers,
		Started:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Rows: []bench.Row{
			{DataSize: "25%", Rows: 25, Operation: task.Sort, Elapsed: ms(12.3 * scale)},
			{DataSize: "25%", Rows: 25, Operation: task.Filter, Elapsed: ms(1.5 * scale)},
			{DataSize: "50%", Rows: 50, Operation: task.Sort, Elapsed: ms(25 * scale)},
			{DataSize: "50%", Rows: 50, Operation: task.Filter, Elapsed: ms(3 * scale)},
		},
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		strategy string
		workers  int
		want     string
	}{
		{"sequential", 1, "SEQUENTIAL ANALYSIS RESULTS"},
		{"threads", 4, "THREADING ANALYSIS RESULTS (4 Threads)"},
		{"processes", 8, "MULTIPROCESSING ANALYSIS RESULTS (8 Processes)"},
		{"chained", 1, "CHAINED THREADING ANALYSIS RESULTS (filter -> sort)"},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			got := Title(&bench.Report{Strategy: tt.strategy, Workers: tt.workers})
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Table(&buf, sampleReport("threads", 4, 1)); err != nil {
		t.Fatalf("table: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "THREADING ANALYSIS RESULTS (4 Threads)") {
		t.Error("missing section header")
	}
	for _, h := range []string{"Data Size", "Operation", "Execution Time (s)"} {
		if !strings.Contains(out, h) {
			t.Errorf("missing column %q in\n%s", h, out)
		}
	}

	// rows keep measurement order and use 4 decimal places
	cells := []string{"0.0123", "0.0015", "0.0250", "0.0030"}
	last := -1
	for _, cell := range cells {
		idx := strings.Index(out, cell)
		if idx < 0 {
			t.Fatalf("missing cell %q in\n%s", cell, out)
		}
		if idx < last {
			t.Errorf("cell %q rendered out of order", cell)
		}
		last = idx
	}

	if !strings.Contains(out, "Sorting") || !strings.Contains(out, "Filtering") {
		t.Error("missing operation labels")
	}
	if !strings.Contains(out, "Total measured time: 0.0418 seconds") {
		t.Errorf("missing total line in\n%s", out)
	}
}

func TestComparison(t *testing.T) {
	t.Run("picks the fastest per row", func(t *testing.T) {
		var buf bytes.Buffer
		reports := []*bench.Report{
			sampleReport("sequential", 1, 1),
			sampleReport("threads", 4, 0.5),
		}

		if err := Comparison(&buf, reports); err != nil {
			t.Fatalf("comparison: %v", err)
		}
		out := buf.String()

		if strings.Count(out, "2.00x") != 4 {
			t.Errorf("expected every row to report 2.00x, got\n%s", out)
		}
		if !strings.Contains(out, "STRATEGY COMPARISON") {
			t.Error("missing section header")
		}
		for _, h := range []string{"Data Size", "sequential", "threads", "Fastest", "vs Slowest"} {
			if !strings.Contains(out, h) {
				t.Errorf("missing column %q", h)
			}
		}
	})

	t.Run("mismatched reports", func(t *testing.T) {
		short := sampleReport("threads", 4, 1)
		short.Rows = short.Rows[:1]

		err := Comparison(&bytes.Buffer{}, []*bench.Report{sampleReport("sequential", 1, 1), short})
		if err == nil {
			t.Fatal("expected an error for mismatched reports")
		}
	})

	t.Run("no reports", func(t *testing.T) {
		if err := Comparison(&bytes.Buffer{}, nil); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestJSON(t *testing.T) {
	r := sampleReport("processes", 2, 1)

	var buf bytes.Buffer
	if err := JSON(&buf, r); err != nil {
		t.Fatalf("json: %v", err)
	}

	var decoded JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if len(decoded.Reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(decoded.Reports))
	}
	got := decoded.Reports[0]
	if got.RunID != r.RunID.String() || got.Workers != 2 {
		t.Errorf("unexpected header %+v", got)
	}
	if got.Rows[0].Operation != "Sorting" || got.Rows[0].ElapsedSecs != "0.0123" {
		t.Errorf("unexpected first row %+v", got.Rows[0])
	}
	if got.Rows[0].ElapsedNs != (12300 * time.Microsecond).Nanoseconds() {
		t.Errorf("unexpected raw duration %d", got.Rows[0].ElapsedNs)
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 2, false)

	c.Start("threading", 4)
	c.SizeStarted("25%", 250)
	c.OperationDone("25%", task.Sort, ms(12.3))
	c.OperationDone("25%", task.Filter, ms(1.5))
	c.Finish("Threading")

	out := buf.String()
	for _, want := range []string{
		"Starting threading analysis with 4 workers...",
		"--- Processing 25% of data (250 rows) ---",
		"Sorting completed in 0.0123 seconds.",
		"Filtering completed in 0.0015 seconds.",
		"Threading analysis complete.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestFailed(t *testing.T) {
	var buf bytes.Buffer
	Failed(&buf, errors.New("input file not found: NYC.csv"))

	if got := buf.String(); got != "ERROR: input file not found: NYC.csv\n" {
		t.Errorf("unexpected output %q", got)
	}
}
