package pipeline

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/springer-meta/internal/csvutil"
)

// ReadISBNs reads the ISBN list of a batch run. Files ending in .csv are read
// as CSV with an ISBN13 or ISBN column; anything else is one ISBN per line
// with blank lines and # comments skipped. Duplicates keep their first position.
func ReadISBNs(path string) ([]string, error) {
	var (
		isbns []string
		err   error
	)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		isbns, err = readCSV(path)
	} else {
		isbns, err = readLines(path)
	}
	if err != nil {
		return nil, err
	}
	return dedupe(isbns), nil
}

func readCSV(path string) ([]string, error) {
	rows, err := csvutil.ProcessCSV(path, parseISBNRow, csvutil.ProcessorOptions{SkipInvalid: true})
	if err != nil {
		return nil, fmt.Errorf("reading ISBN list %s: %w", path, err)
	}
	return rows, nil
}

func parseISBNRow(h csvutil.Header, record []string) (string, error) {
	col := h.Index("ISBN13", "ISBN")
	if col < 0 {
		return "", fmt.Errorf("no ISBN13 or ISBN column")
	}
	isbn := csvutil.CleanValue(csvutil.Field(record, col))
	if isbn == "" {
		// Goodreads exports leave ISBN13 empty for some editions
		if alt := h.Index("ISBN"); alt >= 0 && alt != col {
			isbn = csvutil.CleanValue(csvutil.Field(record, alt))
		}
	}
	if isbn == "" {
		return "", fmt.Errorf("empty ISBN")
	}
	return isbn, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ISBN list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var isbns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		isbns = append(isbns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ISBN list %s: %w", path, err)
	}
	return isbns, nil
}

func dedupe(isbns []string) []string {
	seen := make(map[string]bool, len(isbns))
	out := make([]string, 0, len(isbns))
	for _, isbn := range isbns {
		if seen[isbn] {
			slog.Debug("Skipping duplicate ISBN", "isbn", isbn)
			continue
		}
		seen[isbn] = true
		out = append(out, isbn)
	}
	return out
}
