// Package dates parses loosely formatted publication dates.
package dates

import (
	"strings"
	"time"
)

// ParseFirst tries each layout in order and returns the first successful
// parse as a UTC date. Fields a layout lacks default to their zero value in
// time.Parse, so a missing month or day becomes 1.
// Returns nil when s is blank or no layout matches.
func ParseFirst(s string, layouts []string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return nil
}

// ParseYear extracts a date from strings like "2021", "March 2021" or
// "Mar 03, 2021" as returned by book APIs. Returns nil when nothing parses.
func ParseYear(s string) *time.Time {
	return ParseFirst(s, []string{
		"2006-01-02",
		"January 2, 2006",
		"Jan 2, 2006",
		"2 January 2006",
		"January 2006",
		"Jan 2006",
		"2006",
	})
}
