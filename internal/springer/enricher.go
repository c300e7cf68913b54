package springer

import "github.com/lepinkainen/springer-meta/internal/enrichment/book"

// Name returns the human-readable name of this source.
func (s *Source) Name() string {
	return sourceName
}

// Priority returns the merge priority. Springer Link data wins over every fallback.
func (s *Source) Priority() int {
	return sourcePriority
}

// EnrichmentFromResult converts a successful lookup into EnrichmentData.
// Fields that would only carry defaults (title, publisher, language) are left nil.
func EnrichmentFromResult(res Result) *book.EnrichmentData {
	if !res.Emitted() || res.Extraction == nil {
		return nil
	}

	ex := res.Extraction
	data := &book.EnrichmentData{}

	if v, ok := ex.Fields.Lookup(TargetTitle); ok {
		data.Title = &v
	}
	if v, ok := ex.Fields.Lookup(TargetSubtitle); ok {
		data.Subtitle = &v
	}
	if v, ok := ex.Fields.Lookup(TargetPublisher); ok {
		data.Publisher = &v
	}
	if v, ok := ex.Fields.Lookup(TargetDOI); ok {
		data.DOI = &v
	}
	if ex.About != "" {
		data.Description = &ex.About
	}
	if len(res.Record.Authors) > 0 {
		data.Authors = res.Record.Authors
	}
	data.PublishDate = res.Record.PubDate
	if len(ex.Topics) > 0 {
		data.Subjects = ex.Topics
	}

	return data
}
