// Package book provides interfaces and utilities for enriching book metadata
// from multiple external sources.
package book

import (
	"context"
	"time"
)

// Enricher defines the interface for fetching book information from external sources.
// Each implementation should handle its own rate limiting, caching and data
// transformation to the common EnrichmentData format.
type Enricher interface {
	// Name returns the human-readable name of the source (e.g., "OpenLibrary").
	Name() string

	// Priority returns the priority when merging data. Lower values indicate
	// higher priority. This helps determine which source's data to prefer
	// when merging conflicting information.
	Priority() int

	// Ping tests the connection to the source and returns an error if it
	// cannot be reached for whatever reason.
	Ping(ctx context.Context) error

	// Enrich retrieves book information using the provided ISBN.
	// Implementations should attempt to fetch as much data as possible.
	// Returns nil, nil if book not found (allows other enrichers to try).
	// Returns nil, error for actual errors (network issues, rate limits, etc.)
	Enrich(ctx context.Context, isbn string) (*EnrichmentData, error)
}

// EnrichmentData contains book metadata extracted from an external source.
// Pointer fields distinguish "not found" from "empty string"; sources leave
// fields nil when they only have a default to offer.
type EnrichmentData struct {
	// Title is the main title of the book.
	Title *string

	// Subtitle is the secondary title or tagline.
	Subtitle *string

	// Description is the book's summary, possibly as an HTML fragment.
	Description *string

	// Publisher is the publishing company name.
	Publisher *string

	// PublishDate is the publication date.
	PublishDate *time.Time

	// Language is the two-letter language code (e.g., "en", "de").
	Language *string

	// DOI is the Digital Object Identifier.
	DOI *string

	// Subjects are topic/category tags.
	Subjects []string

	// Authors are the book's author or editor names.
	Authors []string
}

// IsEmpty reports whether d carries no field at all.
func (d *EnrichmentData) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.Title == nil && d.Subtitle == nil && d.Description == nil &&
		d.Publisher == nil && d.PublishDate == nil && d.Language == nil &&
		d.DOI == nil && len(d.Subjects) == 0 && len(d.Authors) == 0
}
