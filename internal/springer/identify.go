package springer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lepinkainen/springer-meta/internal/errors"
	"github.com/lepinkainen/springer-meta/internal/metadata"
)

// Lookup fetches and extracts the book page for identifiers["isbn"].
// It never panics; every failure is reported through the Result.
// Surrounding whitespace is trimmed from the ISBN; the rest goes into the
// URL unchanged.
// A non-positive timeout selects the source default. The timeout covers the
// whole call, including any wait on the rate limiter.
func (s *Source) Lookup(ctx context.Context, identifiers map[string]string, timeout time.Duration) (res Result) {
	isbn := strings.TrimSpace(identifiers[metadata.IdentifierISBN])
	if isbn == "" {
		return Result{Outcome: OutcomeNoInput, Err: fmt.Errorf("lookup: %w", errNoISBN)}
	}

	res.URL = BookURL(s.baseURL, isbn)

	if timeout <= 0 {
		timeout = s.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Outcome: OutcomeUnexpected,
				Err:     fmt.Errorf("lookup %s panicked: %v", isbn, r),
				URL:     res.URL,
			}
		}
	}()

	body, err := s.fetchPage(ctx, isbn, timeout)
	if err != nil {
		res.Outcome = OutcomeFetchFailed
		res.Err = err
		res.StatusCode = errors.StatusCode(err)
		return res
	}

	page, err := ParsePage(bytes.NewReader(body))
	if err != nil {
		res.Outcome = OutcomeUnexpected
		res.Err = err
		return res
	}

	ex, err := page.Extract()
	if err != nil {
		res.Outcome = OutcomeUnexpected
		res.Err = err
		return res
	}

	res.Extraction = ex
	res.Record = BuildRecord(isbn, ex, s.defaults)
	res.Outcome = OutcomeOK
	if !ex.Bibliographic {
		res.Outcome = OutcomeParseDegraded
	}
	return res
}

// Identify looks up identifiers["isbn"] and pushes the record to sink.
// Nothing is returned and nothing escapes: failures are written to log at
// info level and leave the sink untouched. At most one record is pushed.
// The abort flag and the title/authors hints are accepted but not consulted.
func (s *Source) Identify(ctx context.Context, log *slog.Logger, sink metadata.Sink, abort *atomic.Bool,
	title string, authors []string, identifiers map[string]string, timeout time.Duration) {
	if log == nil {
		log = slog.Default()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Info("Lookup failed", "error", fmt.Sprint(r))
		}
	}()

	res := s.Lookup(ctx, identifiers, timeout)

	switch res.Outcome {
	case OutcomeNoInput:
		log.Info("ISBN required")
		return
	case OutcomeFetchFailed:
		if res.StatusCode != 0 {
			log.Info("Error fetching page", "status", res.StatusCode, "url", res.URL)
		} else {
			log.Info("Error fetching page", "error", res.Err.Error(), "url", res.URL)
		}
		return
	case OutcomeUnexpected:
		log.Info("Lookup failed", "error", res.Err.Error(), "url", res.URL)
		return
	case OutcomeParseDegraded:
		log.Info("No bibliographic information on page", "url", res.URL)
	}

	if !res.Emitted() {
		return
	}

	log.Info("Editors", "editors", res.Extraction.Fields[LabelEditors])
	log.Info("Authors", "authors", res.Record.AuthorsDisplay())
	sink.Put(res.Record)
}
