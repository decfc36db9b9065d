package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/utkarsh5026/tripbench/internal/bench"
)

// JSONOutput wraps one or more reports for JSON output.
type JSONOutput struct {
	Benchmark string       `json:"benchmark"`
	Reports   []JSONReport `json:"reports"`
}

// JSONReport is the serialized form of a bench.Report.
type JSONReport struct {
	RunID       string    `json:"run_id"`
	Strategy    string    `json:"strategy"`
	Title       string    `json:"title"`
	Workers     int       `json:"workers"`
	Started     time.Time `json:"started"`
	TotalTimeNs int64     `json:"total_time_ns"`
	Rows        []JSONRow `json:"rows"`
}

// JSONRow carries both the raw duration and the human-readable seconds string.
type JSONRow struct {
	DataSize    string `json:"data_size"`
	Rows        int    `json:"rows"`
	Operation   string `json:"operation"`
	ElapsedNs   int64  `json:"elapsed_ns"`
	ElapsedSecs string `json:"execution_time_s"`
}

// ToJSON converts reports into their serialized form.
func ToJSON(reports ...*bench.Report) JSONOutput {
	out := JSONOutput{Benchmark: "tripbench", Reports: make([]JSONReport, 0, len(reports))}
	for _, r := range reports {
		jr := JSONReport{
			RunID:       r.RunID.String(),
			Strategy:    r.Strategy,
			Title:       Title(r),
			Workers:     r.Workers,
			Started:     r.Started,
			TotalTimeNs: r.Total().Nanoseconds(),
			Rows:        make([]JSONRow, 0, len(r.Rows)),
		}
		for _, row := range r.Rows {
			jr.Rows = append(jr.Rows, JSONRow{
				DataSize:    row.DataSize,
				Rows:        row.Rows,
				Operation:   row.Operation.String(),
				ElapsedNs:   row.Elapsed.Duration().Nanoseconds(),
				ElapsedSecs: row.Elapsed.String(),
			})
		}
		out.Reports = append(out.Reports, jr)
	}
	return out
}

// SerializeToJSON converts reports to indented JSON bytes.
func SerializeToJSON(reports ...*bench.Report) ([]byte, error) {
	return json.MarshalIndent(ToJSON(reports...), "", "  ")
}

// JSON writes reports to w as indented JSON.
func JSON(w io.Writer, reports ...*bench.Report) error {
	data, err := SerializeToJSON(reports...)
	if err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
