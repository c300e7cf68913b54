package book

import (
	"maps"

	"github.com/lepinkainen/springer-meta/internal/metadata"
)

// ApplyToRecord copies every field set in data onto rec, overwriting
// what rec held. A subtitle is appended to the title after ": ".
func ApplyToRecord(rec *metadata.Record, data *EnrichmentData) {
	if rec == nil || data == nil {
		return
	}

	if data.Title != nil {
		rec.Title = ComposeTitle(*data.Title, data.Subtitle)
	}
	if len(data.Authors) > 0 {
		rec.Authors = data.Authors
	}
	if data.Publisher != nil {
		rec.Publisher = *data.Publisher
	}
	if data.PublishDate != nil {
		d := *data.PublishDate
		rec.PubDate = &d
	}
	if data.Language != nil {
		rec.Languages = []string{*data.Language}
	}
	if data.Description != nil {
		rec.Comments = *data.Description
	}
	if len(data.Subjects) > 0 {
		rec.Tags = data.Subjects
	}
	if data.DOI != nil {
		ids := maps.Clone(rec.Identifiers)
		if ids == nil {
			ids = map[string]string{}
		}
		ids[metadata.IdentifierDOI] = *data.DOI
		rec.Identifiers = ids
	}
}

// ComposeTitle joins a title and an optional subtitle as "title: subtitle".
func ComposeTitle(title string, subtitle *string) string {
	if subtitle == nil || *subtitle == "" {
		return title
	}
	return title + ": " + *subtitle
}
