package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// FieldsPerRecord sets the expected number of fields per record.
	// If 0, the reader accepts a variable number of fields.
	FieldsPerRecord int

	// SkipInvalid controls whether to skip invalid records or return an error.
	SkipInvalid bool
}

// Header maps column names to their index in a record.
type Header map[string]int

// NewHeader builds a Header from the first CSV row. Names are trimmed and
// a UTF-8 byte order mark on the first column is dropped.
func NewHeader(row []string) Header {
	h := make(Header, len(row))
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, exists := h[name]; !exists {
			h[name] = i
		}
	}
	return h
}

// Index returns the position of the first of names present in the header,
// compared case-insensitively, or -1.
func (h Header) Index(names ...string) int {
	for _, want := range names {
		for name, i := range h {
			if strings.EqualFold(name, want) {
				return i
			}
		}
	}
	return -1
}

// Field returns record[i], or "" when i is out of range.
func Field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// CleanValue strips the spreadsheet text wrapper (="...") that some exports
// put around numeric identifiers, and surrounding whitespace.
func CleanValue(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// ProcessCSV reads a CSV file and parses each record into type T.
// The parser receives the header of the file alongside each record.
// Returns a slice of parsed items or an error.
func ProcessCSV[T any](filename string, parser func(Header, []string) (T, error), opts ProcessorOptions) ([]T, error) {
	csvFile, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = csvFile.Close() }()

	if fi, err := csvFile.Stat(); err != nil || fi.Size() == 0 {
		return nil, fmt.Errorf("CSV file is empty or cannot be read")
	}

	return ProcessReader(csvFile, parser, opts)
}

// ProcessReader is ProcessCSV over an arbitrary reader.
func ProcessReader[T any](r io.Reader, parser func(Header, []string) (T, error), opts ProcessorOptions) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = opts.FieldsPerRecord
	if opts.FieldsPerRecord == 0 {
		reader.FieldsPerRecord = -1
	}

	row, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header := NewHeader(row)

	var items []T

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Error reading record", "error", err)
			continue
		}

		item, err := parser(header, record)
		if err != nil {
			if opts.SkipInvalid {
				slog.Warn("Skipping invalid record", "error", err)
				continue
			}
			return nil, fmt.Errorf("invalid record: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
