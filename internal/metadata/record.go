// Package metadata defines the normalized book record produced by metadata
// sources and the sinks that collect it.
package metadata

import (
	"encoding/json"
	"strings"
	"time"
)

// Identifier keys used in Record.Identifiers.
const (
	IdentifierISBN = "isbn"
	IdentifierDOI  = "doi"
)

// DateLayout is the serialized form of Record.PubDate.
const DateLayout = "2006-01-02"

// Record is a normalized book metadata record.
type Record struct {
	// Title is the book title, with the subtitle appended after ": " when known.
	Title string

	// Authors is the author/editor name list the display string is derived from.
	Authors []string

	// Publisher is the publishing company name.
	Publisher string

	// PubDate is the publication date, nil when it could not be determined.
	PubDate *time.Time

	// Languages are language tags (e.g., "de").
	Languages []string

	// Comments is the book description as an HTML fragment.
	Comments string

	// ISBN is the ISBN the record was looked up with.
	ISBN string

	// Identifiers always carries the "isbn" and "doi" keys.
	Identifiers map[string]string

	// Tags are free-text topic tags.
	Tags []string
}

// AuthorsDisplay returns the comma-joined author list.
func (r *Record) AuthorsDisplay() string {
	return strings.Join(r.Authors, ", ")
}

// DOI returns the DOI identifier, or an empty string.
func (r *Record) DOI() string {
	return r.Identifiers[IdentifierDOI]
}

// PubDateString returns the publication date as YYYY-MM-DD, or an empty string.
func (r *Record) PubDateString() string {
	if r.PubDate == nil {
		return ""
	}
	return r.PubDate.Format(DateLayout)
}

// recordView is the serialized shape of a Record for JSON and YAML output.
type recordView struct {
	Title       string            `json:"title" yaml:"title"`
	Authors     string            `json:"authors" yaml:"authors"`
	AuthorList  []string          `json:"author_list" yaml:"author_list"`
	Publisher   string            `json:"publisher" yaml:"publisher"`
	PubDate     *string           `json:"pubdate" yaml:"pubdate"`
	Languages   []string          `json:"languages" yaml:"languages"`
	Comments    string            `json:"comments" yaml:"comments"`
	ISBN        string            `json:"isbn" yaml:"isbn"`
	Identifiers map[string]string `json:"identifiers" yaml:"identifiers"`
	Tags        []string          `json:"tags" yaml:"tags"`
}

func (r *Record) view() recordView {
	v := recordView{
		Title:       r.Title,
		Authors:     r.AuthorsDisplay(),
		AuthorList:  nonNil(r.Authors),
		Publisher:   r.Publisher,
		Languages:   nonNil(r.Languages),
		Comments:    r.Comments,
		ISBN:        r.ISBN,
		Identifiers: r.Identifiers,
		Tags:        nonNil(r.Tags),
	}
	if r.PubDate != nil {
		d := r.PubDateString()
		v.PubDate = &d
	}
	if v.Identifiers == nil {
		v.Identifiers = map[string]string{}
	}
	return v
}

// MarshalJSON encodes the record with a display author string and a
// YYYY-MM-DD publication date.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.view())
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (r *Record) MarshalYAML() (any, error) {
	return r.view(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
