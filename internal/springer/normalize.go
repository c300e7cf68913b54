package springer

import (
	"strings"

	"github.com/lepinkainen/springer-meta/internal/enrichment/book"
	"github.com/lepinkainen/springer-meta/internal/metadata"
)

// DefaultTitle is used when the page has no "Book Title".
const DefaultTitle = "Unbekannt"

// Defaults are the values a record falls back to when the page lacks them.
type Defaults struct {
	Title     string
	Publisher string
	Language  string
}

// BuildRecord derives the normalized record for isbn from an extraction.
// No field is required; a page without any markers still yields a record.
func BuildRecord(isbn string, ex *Extraction, d Defaults) *metadata.Record {
	if ex == nil {
		ex = &Extraction{}
	}
	fields := ex.Fields

	title, ok := fields.Lookup(TargetTitle)
	if !ok {
		title = d.Title
	}
	if subtitle, ok := fields.Lookup(TargetSubtitle); ok {
		title = book.ComposeTitle(title, &subtitle)
	}

	editors, _ := fields.Lookup(TargetEditors)
	doi, _ := fields.Lookup(TargetDOI)

	publisher, ok := fields.Lookup(TargetPublisher)
	if !ok {
		publisher = d.Publisher
	}

	pubDate, _ := fields.Lookup(TargetPubDate)

	tags := ex.Topics
	if tags == nil {
		tags = []string{}
	}

	return &metadata.Record{
		Title:     title,
		Authors:   SplitEditors(editors),
		Publisher: publisher,
		PubDate:   ParsePubDate(pubDate),
		Languages: []string{d.Language},
		Comments:  ex.About,
		ISBN:      isbn,
		Identifiers: map[string]string{
			metadata.IdentifierDOI:  doi,
			metadata.IdentifierISBN: isbn,
		},
		Tags: tags,
	}
}

// SplitEditors turns the "Editors" value into a name list. A value with a
// comma is split on every comma and each segment trimmed; otherwise the whole
// value is a single name. Names joined only by "and" stay together.
func SplitEditors(editors string) []string {
	if strings.Contains(editors, ",") {
		parts := strings.Split(editors, ",")
		names := make([]string, len(parts))
		for i, p := range parts {
			names[i] = strings.TrimSpace(p)
		}
		return names
	}
	if name := strings.TrimSpace(editors); name != "" {
		return []string{name}
	}
	return []string{}
}
