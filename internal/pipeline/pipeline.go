// Package pipeline runs Springer Link lookups over a list of ISBNs and
// writes the resulting records to the configured outputs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lepinkainen/springer-meta/internal/enrichment/book"
	"github.com/lepinkainen/springer-meta/internal/errors"
	"github.com/lepinkainen/springer-meta/internal/metadata"
	"github.com/lepinkainen/springer-meta/internal/springer"
)

// Looker is the lookup side of springer.Source.
type Looker interface {
	Name() string
	Priority() int
	Lookup(ctx context.Context, identifiers map[string]string, timeout time.Duration) springer.Result
}

// Options configures a Pipeline.
type Options struct {
	// Timeout bounds each page fetch. Zero selects the source default.
	Timeout time.Duration
	// Fallback fills fields the page did not have. Nil disables it.
	Fallback book.Enricher
	// Abort is checked before every ISBN. Nil never aborts.
	Abort *atomic.Bool
	// Now stamps FetchedAt; defaults to time.Now.
	Now func() time.Time
}

// Item is the outcome of one ISBN.
type Item struct {
	ISBN      string
	Outcome   springer.Outcome
	Record    *metadata.Record
	Err       error
	Enriched  bool
	FetchedAt time.Time
}

// Run is the result of one pipeline run.
type Run struct {
	ID    string
	Items []Item
}

// Records returns the records produced by the run in input order.
func (r *Run) Records() []*metadata.Record {
	out := make([]*metadata.Record, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Record != nil {
			out = append(out, it.Record)
		}
	}
	return out
}

// Pipeline looks up ISBNs one after another.
type Pipeline struct {
	source Looker
	opts   Options
	merger book.Merger
	log    *slog.Logger
}

// New creates a Pipeline over source.
func New(source Looker, opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		source: source,
		opts:   opts,
		merger: book.NewPriorityMerger(),
		log:    slog.Default(),
	}
}

// Run looks up every ISBN in order. When the abort flag is raised the run
// stops before the next ISBN and returns the items so far together with a
// *errors.StopProcessingError.
func (p *Pipeline) Run(ctx context.Context, isbns []string) (*Run, error) {
	run := &Run{ID: uuid.NewString()}
	p.log.Info("Starting batch run", "run_id", run.ID, "isbns", len(isbns))

	fallback := p.opts.Fallback
	if fallback != nil {
		if err := fallback.Ping(ctx); err != nil {
			p.log.Warn("Fallback source unavailable, continuing without it", "source", fallback.Name(), "error", err)
			fallback = nil
		}
	}

	for i, isbn := range isbns {
		if p.aborted() {
			return run, errors.NewStopProcessingError(fmt.Sprintf("aborted after %d of %d ISBNs", i, len(isbns)))
		}
		if err := ctx.Err(); err != nil {
			return run, err
		}

		item := p.lookup(ctx, isbn, fallback)
		run.Items = append(run.Items, item)

		p.log.Info("Processed ISBN",
			"isbn", isbn,
			"outcome", item.Outcome.String(),
			"progress", fmt.Sprintf("%d/%d", i+1, len(isbns)))
	}

	return run, nil
}

func (p *Pipeline) aborted() bool {
	return p.opts.Abort != nil && p.opts.Abort.Load()
}

func (p *Pipeline) lookup(ctx context.Context, isbn string, fallback book.Enricher) Item {
	res := p.source.Lookup(ctx, map[string]string{metadata.IdentifierISBN: isbn}, p.opts.Timeout)
	item := Item{
		ISBN:      isbn,
		Outcome:   res.Outcome,
		Err:       res.Err,
		FetchedAt: p.opts.Now().UTC(),
	}
	if !res.Emitted() {
		p.log.Debug("No record", "isbn", isbn, "error", res.Err)
		return item
	}

	item.Record = res.Record
	if fallback != nil {
		item.Enriched = p.enrich(ctx, res, fallback)
	}
	return item
}

// enrich merges fallback data under the page data and applies it to the
// record. It reports whether the fallback contributed anything.
func (p *Pipeline) enrich(ctx context.Context, res springer.Result, fallback book.Enricher) bool {
	extra, err := fallback.Enrich(ctx, res.Record.ISBN)
	if err != nil {
		p.log.Warn("Fallback lookup failed", "source", fallback.Name(), "isbn", res.Record.ISBN, "error", err)
		return false
	}
	if extra.IsEmpty() {
		return false
	}

	page := springer.EnrichmentFromResult(res)
	if page != nil && len(page.Subjects) > 0 {
		// page topics are kept as they are
		extra.Subjects = nil
	}

	merged := p.merger.Merge([]book.EnricherResult{
		{Data: page, Source: p.source.Name(), Priority: p.source.Priority()},
		{Data: extra, Source: fallback.Name(), Priority: fallback.Priority()},
	})
	book.ApplyToRecord(res.Record, merged)
	return true
}
