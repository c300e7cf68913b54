package book

import (
	"testing"
	"time"

	"github.com/lepinkainen/springer-meta/internal/metadata"
	"github.com/stretchr/testify/assert"
)

func TestApplyToRecord(t *testing.T) {
	pub := time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)
	rec := &metadata.Record{
		Title:       "Unbekannt",
		Publisher:   "Springer",
		Languages:   []string{"de"},
		ISBN:        "123",
		Identifiers: map[string]string{"isbn": "123", "doi": ""},
	}
	original := rec.Identifiers

	ApplyToRecord(rec, &EnrichmentData{
		Title:       strPtr("Foo"),
		Subtitle:    strPtr("Bar"),
		Authors:     []string{"Jane Doe"},
		PublishDate: &pub,
		Language:    strPtr("en"),
		DOI:         strPtr("10.1/abc"),
		Subjects:    []string{"Algebra"},
	})

	assert.Equal(t, "Foo: Bar", rec.Title)
	assert.Equal(t, []string{"Jane Doe"}, rec.Authors)
	assert.Equal(t, "Springer", rec.Publisher)
	assert.Equal(t, "2021-03-01", rec.PubDateString())
	assert.Equal(t, []string{"en"}, rec.Languages)
	assert.Equal(t, []string{"Algebra"}, rec.Tags)
	assert.Equal(t, "10.1/abc", rec.DOI())
	assert.Equal(t, "123", rec.Identifiers["isbn"])
	assert.Equal(t, "", original["doi"], "identifier map must be copied before writing")
}

func TestApplyToRecord_Nil(t *testing.T) {
	rec := &metadata.Record{Title: "Keep"}
	ApplyToRecord(rec, nil)
	ApplyToRecord(nil, &EnrichmentData{})
	assert.Equal(t, "Keep", rec.Title)
}

func TestComposeTitle(t *testing.T) {
	assert.Equal(t, "Foo: Bar", ComposeTitle("Foo", strPtr("Bar")))
	assert.Equal(t, "Foo", ComposeTitle("Foo", strPtr("")))
	assert.Equal(t, "Foo", ComposeTitle("Foo", nil))
}
