package obsidian

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/springer-meta/internal/metadata"
)

// Frontmatter keys written for a book note.
const (
	KeyTitle     = "title"
	KeyAuthors   = "authors"
	KeyPublisher = "publisher"
	KeyPublished = "published"
	KeyISBN      = "isbn"
	KeyDOI       = "doi"
	KeyLanguages = "languages"
	KeyTags      = "tags"
	KeySource    = "source"
)

// SourceSpringer marks notes written from Springer Link records.
const SourceSpringer = "springer"

// BookTags derives the note tags for rec: "book", one "topic/..." tag per
// record tag and "published/<year>" when the date is known.
func BookTags(rec *metadata.Record) []string {
	ts := NewTagSet()
	ts.Add("book")
	for _, tag := range rec.Tags {
		ts.AddWithPrefix("topic", tag)
	}
	ts.AddIf(rec.PubDate != nil, publishedTag(rec))
	return ts.GetSorted()
}

func publishedTag(rec *metadata.Record) string {
	if rec.PubDate == nil {
		return ""
	}
	return fmt.Sprintf("published/%d", rec.PubDate.Year())
}

// BookFrontmatter returns the frontmatter for rec.
func BookFrontmatter(rec *metadata.Record) *Frontmatter {
	fm := NewFrontmatter()
	fm.Set(KeyTitle, rec.Title)
	if len(rec.Authors) > 0 {
		fm.Set(KeyAuthors, rec.Authors)
	}
	fm.SetIf(KeyPublisher, rec.Publisher)
	fm.SetIf(KeyPublished, rec.PubDateString())
	fm.Set(KeyISBN, rec.ISBN)
	fm.SetIf(KeyDOI, rec.DOI())
	if len(rec.Languages) > 0 {
		fm.Set(KeyLanguages, rec.Languages)
	}
	fm.Set(KeyTags, BookTags(rec))
	fm.Set(KeySource, SourceSpringer)
	return fm
}

// BookBody returns the note body: a heading, the description HTML and a DOI link.
func BookBody(rec *metadata.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", rec.Title)

	if c := strings.TrimSpace(rec.Comments); c != "" {
		b.WriteString("\n")
		b.WriteString(c)
		b.WriteString("\n")
	}

	if doi := rec.DOI(); doi != "" {
		fmt.Fprintf(&b, "\n[DOI](%s)\n", doi)
	}
	return b.String()
}

// BookNote builds a new note for rec.
func BookNote(rec *metadata.Record) *Note {
	return &Note{Frontmatter: BookFrontmatter(rec), Body: BookBody(rec)}
}

// MergeBookNote updates an existing note with rec. Book keys are replaced,
// tags are merged with the existing ones, other keys and a non-empty body
// are kept as they are.
func MergeBookNote(existing []byte, rec *metadata.Record) (*Note, error) {
	note, err := ParseMarkdown(existing)
	if err != nil {
		return nil, err
	}

	fresh := BookFrontmatter(rec)
	for _, key := range fresh.Keys() {
		if key == KeyTags {
			continue
		}
		value, _ := fresh.Get(key)
		note.Frontmatter.Set(key, value)
	}
	note.Frontmatter.Set(KeyTags, MergeTags(note.Frontmatter.GetStringArray(KeyTags), BookTags(rec)))

	if strings.TrimSpace(note.Body) == "" {
		note.Body = BookBody(rec)
	}
	return note, nil
}
