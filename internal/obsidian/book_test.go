package obsidian

import (
	"strings"
	"testing"
	"time"

	"github.com/lepinkainen/springer-meta/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecord() *metadata.Record {
	pub := time.Date(2025, time.August, 30, 0, 0, 0, 0, time.UTC)
	return &metadata.Record{
		Title:     "Foo: Bar",
		Authors:   []string{"Jane Doe", "John Smith"},
		Publisher: "Springer Vieweg Wiesbaden",
		PubDate:   &pub,
		Languages: []string{"de"},
		Comments:  `<div class="c-book-section"><p>About.</p></div>`,
		ISBN:      "9783658000000",
		Identifiers: map[string]string{
			metadata.IdentifierISBN: "9783658000000",
			metadata.IdentifierDOI:  "https://doi.org/10.1007/978-3-658-00000-0",
		},
		Tags: []string{"Algebra", "Linear and Multilinear Algebras, Matrix Theory"},
	}
}

func TestBookTags(t *testing.T) {
	assert.Equal(t, []string{
		"book",
		"published/2025",
		"topic/Algebra",
		"topic/Linear-and-Multilinear-Algebras-Matrix-Theory",
	}, BookTags(fullRecord()))

	assert.Equal(t, []string{"book"}, BookTags(&metadata.Record{Title: "Unbekannt"}))
}

func TestBookNote(t *testing.T) {
	out, err := BookNote(fullRecord()).Build()
	require.NoError(t, err)

	note, err := ParseMarkdown(out)
	require.NoError(t, err)

	fm := note.Frontmatter
	assert.Equal(t, "Foo: Bar", fm.GetString(KeyTitle))
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, fm.GetStringArray(KeyAuthors))
	assert.Equal(t, "Springer Vieweg Wiesbaden", fm.GetString(KeyPublisher))
	assert.Equal(t, "2025-08-30", fm.GetString(KeyPublished))
	assert.Equal(t, "9783658000000", fm.GetString(KeyISBN))
	assert.Equal(t, "https://doi.org/10.1007/978-3-658-00000-0", fm.GetString(KeyDOI))
	assert.Equal(t, []string{"de"}, fm.GetStringArray(KeyLanguages))
	assert.Equal(t, SourceSpringer, fm.GetString(KeySource))
	assert.Contains(t, fm.GetStringArray(KeyTags), "topic/Algebra")

	assert.True(t, strings.HasPrefix(note.Body, "# Foo: Bar\n"))
	assert.Contains(t, note.Body, `<div class="c-book-section">`)
	assert.Contains(t, note.Body, "[DOI](https://doi.org/10.1007/978-3-658-00000-0)")
}

func TestBookNote_Defaults(t *testing.T) {
	rec := &metadata.Record{
		Title:       "Unbekannt",
		Publisher:   "Springer",
		Languages:   []string{"de"},
		ISBN:        "9783658999999",
		Identifiers: map[string]string{metadata.IdentifierISBN: "9783658999999", metadata.IdentifierDOI: ""},
	}

	note := BookNote(rec)
	_, hasDOI := note.Frontmatter.Get(KeyDOI)
	_, hasPublished := note.Frontmatter.Get(KeyPublished)
	_, hasAuthors := note.Frontmatter.Get(KeyAuthors)
	assert.False(t, hasDOI)
	assert.False(t, hasPublished)
	assert.False(t, hasAuthors)
	assert.Equal(t, "# Unbekannt\n", note.Body)
}

func TestMergeBookNote(t *testing.T) {
	existing := `---
title: Old Title
rating: 5
tags: [reading, book]
---
My own notes.
`
	note, err := MergeBookNote([]byte(existing), fullRecord())
	require.NoError(t, err)

	fm := note.Frontmatter
	assert.Equal(t, "Foo: Bar", fm.GetString(KeyTitle))
	rating, ok := fm.Get("rating")
	assert.True(t, ok)
	assert.Equal(t, 5, rating)
	assert.Equal(t, []string{
		"book",
		"published/2025",
		"reading",
		"topic/Algebra",
		"topic/Linear-and-Multilinear-Algebras-Matrix-Theory",
	}, fm.GetStringArray(KeyTags))
	assert.Equal(t, "My own notes.\n", note.Body)
}

func TestMergeBookNote_EmptyBodyIsFilled(t *testing.T) {
	note, err := MergeBookNote([]byte("---\ntitle: Old\n---\n"), fullRecord())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(note.Body, "# Foo: Bar"))
}

func TestMergeBookNote_InvalidFrontmatter(t *testing.T) {
	_, err := MergeBookNote([]byte("---\ntitle: [broken\n---\n"), fullRecord())
	assert.Error(t, err)
}
