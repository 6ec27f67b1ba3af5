package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadStats summarizes a LoadAll call.
type LoadStats struct {
	FilesRead    int
	SkippedFiles []string
	BytesRead    int64
}

// ReadTable parses the CSV file at path. The first record is the header.
//
// A file without any record returns ErrEmptyData. A data row with more
// fields than the header returns ErrMalformedCSV; shorter rows are padded.
func ReadTable(path string) (*Dataset, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r, counter := WrapInput(f)
	ds, err := ParseTable(r, path)
	return ds, counter.BytesRead, err
}

// ParseTable parses CSV content read from r. source names the input in errors.
func ParseTable(r io.Reader, source string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s", ErrEmptyData, source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedCSV, source, err)
	}

	ds := &Dataset{Columns: uniqueColumns(header)}
	width := len(ds.Columns)

	for idx := 0; ; idx++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedCSV, source, err)
		}

		if len(record) > width {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: %s: line %d: expected %d fields, saw %d",
				ErrMalformedCSV, source, line, width, len(record))
		}

		values := make([]string, width)
		copy(values, record)
		ds.Rows = append(ds.Rows, Row{Index: idx, Values: values})
	}

	return ds, nil
}

// uniqueColumns names blank headers "Unnamed: <pos>" and renames repeated
// headers to name.1, name.2, ... so every column is addressable.
func uniqueColumns(header []string) []string {
	cols := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))

	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for seen[name] {
			counts[h]++
			name = h + "." + strconv.Itoa(counts[h])
		}
		seen[name] = true
		cols[i] = name
	}
	return cols
}

// LoadAll reads every file and concatenates the parsed tables in order.
//
// Empty files are skipped and listed in LoadStats.SkippedFiles. Any other
// read or parse failure aborts the load. When no table was parsed the
// error wraps ErrNoData.
func LoadAll(ctx context.Context, files []FileEntry) (*Dataset, LoadStats, error) {
	var stats LoadStats
	tables := make([]*Dataset, 0, len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, stats, &StageError{Stage: StageLoad, Err: err}
		}

		t, n, err := ReadTable(f.Path)
		stats.BytesRead += n
		if errors.Is(err, ErrEmptyData) {
			stats.SkippedFiles = append(stats.SkippedFiles, f.Path)
			continue
		}
		if err != nil {
			return nil, stats, &StageError{Stage: StageLoad, Err: err}
		}

		stats.FilesRead++
		tables = append(tables, t)
	}

	ds, err := Concat(tables...)
	if err != nil {
		return nil, stats, &StageError{Stage: StageConcat, Err: err}
	}
	return ds, stats, nil
}
