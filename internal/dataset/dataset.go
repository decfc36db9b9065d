// Package dataset loads the numeric benchmark column from a CSV file.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// DefaultColumn is the column benchmarked when none is configured.
const DefaultColumn = "trip_duration"

// ErrMissingInput matches any MissingInputError.
var ErrMissingInput = errors.New("input file not found")

// MissingInputError reports that the input CSV does not exist.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// Load reads the named column of the CSV file at path.
func Load(path, column string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: path}
		}
		return nil, err
	}
	defer file.Close()

	values, err := Parse(file, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// Parse reads CSV with a header row from r and returns the values of column
// in file order.
func Parse(r io.Reader, column string) ([]float64, error) {
	if column == "" {
		column = DefaultColumn
	}

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty file: no header row")
	} else if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in header", column)
	}

	values := make([]float64, 0, 1024)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(idx)
		field := strings.TrimSpace(record[idx])
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: column %q: invalid number %q", line, column, field)
		}
		values = append(values, v)
	}

	return values, nil
}
