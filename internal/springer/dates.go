package springer

import (
	"time"

	"github.com/lepinkainen/springer-meta/internal/dates"
)

// pubDateLayouts are tried in order: "30 August 2025", "August 2025", "2025".
// Missing day or month default to 1.
var pubDateLayouts = []string{
	"2 January 2006",
	"January 2006",
	"2006",
}

// ParsePubDate parses a publication date as printed on the page.
// Returns nil when no layout matches.
func ParsePubDate(s string) *time.Time {
	return dates.ParseFirst(s, pubDateLayouts)
}
