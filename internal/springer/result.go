package springer

import (
	"errors"

	"github.com/lepinkainen/springer-meta/internal/metadata"
)

var errNoISBN = errors.New("ISBN required")

// Outcome classifies how a lookup ended.
type Outcome int

const (
	// OutcomeOK means a record was built from a page with bibliographic data.
	OutcomeOK Outcome = iota
	// OutcomeNoInput means the identifiers carried no ISBN; nothing was fetched.
	OutcomeNoInput
	// OutcomeFetchFailed means the page could not be retrieved.
	OutcomeFetchFailed
	// OutcomeParseDegraded means the page lacked the Bibliographic Information
	// section. A record of defaults is still produced.
	OutcomeParseDegraded
	// OutcomeUnexpected covers any other failure, including recovered panics.
	OutcomeUnexpected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoInput:
		return "no_input"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeParseDegraded:
		return "parse_degraded"
	case OutcomeUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Result is the outcome of one lookup.
type Result struct {
	Outcome Outcome
	// Record is set for OutcomeOK and OutcomeParseDegraded.
	Record *metadata.Record
	// Extraction holds the raw page data behind Record.
	Extraction *Extraction
	// Err describes the failure for the failing outcomes.
	Err error
	// StatusCode is the HTTP status of a failed fetch, or 0.
	StatusCode int
	URL        string
}

// Emitted reports whether the lookup produced a record.
func (r Result) Emitted() bool {
	return r.Record != nil && (r.Outcome == OutcomeOK || r.Outcome == OutcomeParseDegraded)
}
