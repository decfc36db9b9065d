package report

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/utkarsh5026/tripbench/internal/bench"
)

// Title returns the section header for a report, e.g.
// "THREADING ANALYSIS RESULTS (4 Threads)".
func Title(r *bench.Report) string {
	switch r.Strategy {
	case "sequential":
		return "SEQUENTIAL ANALYSIS RESULTS"
	case "threads":
		return fmt.Sprintf("THREADING ANALYSIS RESULTS (%d Threads)", r.Workers)
	case "chained":
		return "CHAINED THREADING ANALYSIS RESULTS (filter -> sort)"
	case "processes":
		return fmt.Sprintf("MULTIPROCESSING ANALYSIS RESULTS (%d Processes)", r.Workers)
	default:
		return fmt.Sprintf("%s ANALYSIS RESULTS", r.Strategy)
	}
}

// Table writes the report as a three-column table, rows in measurement order.
func Table(w io.Writer, r *bench.Report) error {
	printSectionHeader(w, Title(r))

	table := newTable(w)
	table.Header("Data Size", "Operation", "Execution Time (s)")

	for _, row := range r.Rows {
		if err := table.Append(row.DataSize, row.Operation.String(), row.Elapsed.String()); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	_, _ = fmt.Fprintf(w, "\nTotal measured time: %.4f seconds\n", r.Total().Seconds())
	return nil
}

// Comparison writes one row per data size and operation with a column per
// strategy and the fastest strategy for that row. Reports must come from
// runs over the same fractions and operations.
func Comparison(w io.Writer, reports []*bench.Report) error {
	if len(reports) == 0 {
		colorPrintLn(w, Red, "No strategies completed successfully!")
		return fmt.Errorf("no reports to compare")
	}

	printSectionHeader(w, "STRATEGY COMPARISON",
		"Execution time in seconds for each strategy (lower is better)")

	header := []any{"Data Size", "Operation"}
	for _, r := range reports {
		header = append(header, r.Strategy)
	}
	header = append(header, "Fastest", "vs Slowest")

	table := newTable(w)
	table.Header(header...)

	for i, row := range reports[0].Rows {
		cells := []any{row.DataSize, row.Operation.String()}
		times := make([]time.Duration, 0, len(reports))

		for _, r := range reports {
			if i >= len(r.Rows) || !sameStep(r.Rows[i], row) {
				return fmt.Errorf("report %s does not match %s at row %d", r.Strategy, reports[0].Strategy, i)
			}
			cells = append(cells, r.Rows[i].Elapsed.String())
			times = append(times, r.Rows[i].Elapsed.Duration())
		}

		fastest := slices.Index(times, slices.Min(times))
		cells = append(cells,
			reports[fastest].Strategy,
			getVsSlowestStr(times[fastest], slices.Max(times)),
		)

		if err := table.Append(cells...); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	return table.Render()
}

// newTable creates a table whose header labels render exactly as given.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithHeaderAutoFormat(tw.Off))
}

func sameStep(a, b bench.Row) bool {
	return a.DataSize == b.DataSize && a.Operation == b.Operation
}

// getVsSlowestStr formats how many times faster the fastest run was.
func getVsSlowestStr(fastest, slowest time.Duration) string {
	if fastest <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fx", float64(slowest)/float64(fastest))
}
