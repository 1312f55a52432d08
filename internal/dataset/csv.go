package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingColumn is returned when the CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrMalformedRow is returned when a data row cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")
)

// Required columns of the historical dataset. Extra columns are ignored.
var requiredColumns = []string{"timestamp", "city", "season", "temperature"}

// Read parses the historical dataset from CSV. The first row must be a
// header naming at least the four required columns; any header or row error
// aborts the whole load, since downstream analysis cannot work with a
// partially read series.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var records []Record
	for row := 2; ; row++ {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrMalformedRow, row, err)
		}

		rec, err := parseRow(cells, idx)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrMalformedRow, row, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadFile reads the dataset from a CSV file on disk.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func parseRow(cells []string, idx map[string]int) (Record, error) {
	ts, err := parseTimestamp(cells[idx["timestamp"]])
	if err != nil {
		return Record{}, err
	}

	city := strings.TrimSpace(cells[idx["city"]])
	if city == "" {
		return Record{}, errors.New("empty city")
	}

	season, err := ParseSeason(cells[idx["season"]])
	if err != nil {
		return Record{}, err
	}

	temp, err := strconv.ParseFloat(strings.TrimSpace(cells[idx["temperature"]]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid temperature %q", cells[idx["temperature"]])
	}

	return Record{
		Timestamp:   ts,
		City:        city,
		Season:      season,
		Temperature: temp,
	}, nil
}

// parseTimestamp accepts RFC3339 or a plain date, the two formats the
// historical exports use.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q; use RFC3339 or YYYY-MM-DD", s)
}
