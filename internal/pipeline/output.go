package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lepinkainen/springer-meta/internal/cmdutil"
	"github.com/lepinkainen/springer-meta/internal/datastore"
	"github.com/lepinkainen/springer-meta/internal/fileutil"
	"github.com/lepinkainen/springer-meta/internal/metadata"
	"github.com/lepinkainen/springer-meta/internal/obsidian"
)

// BooksTable is the datastore table batch rows are written to.
const BooksTable = "springer_books"

const booksSchema = `
CREATE TABLE IF NOT EXISTS springer_books (
	isbn TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	outcome TEXT NOT NULL,
	error TEXT,
	title TEXT,
	authors TEXT,
	publisher TEXT,
	pubdate TEXT,
	languages TEXT,
	comments TEXT,
	doi TEXT,
	tags TEXT,
	enriched BOOLEAN,
	fetched_at TEXT
);
`

// BookRow is the datastore shape of one item. Failed lookups are stored too,
// with only the outcome and error set.
type BookRow struct {
	ISBN      string
	RunID     string
	Outcome   string
	Error     *string
	Title     string
	Authors   string
	Publisher string
	PubDate   *string
	Languages []string
	Comments  string
	DOI       string
	Tags      []string
	Enriched  bool
	FetchedAt time.Time
}

// NewBookRow converts an item of run runID.
func NewBookRow(runID string, it Item) BookRow {
	row := BookRow{
		ISBN:      it.ISBN,
		RunID:     runID,
		Outcome:   it.Outcome.String(),
		Enriched:  it.Enriched,
		FetchedAt: it.FetchedAt,
	}
	if it.Err != nil {
		msg := it.Err.Error()
		row.Error = &msg
	}
	if rec := it.Record; rec != nil {
		row.Title = rec.Title
		row.Authors = rec.AuthorsDisplay()
		row.Publisher = rec.Publisher
		if d := rec.PubDateString(); d != "" {
			row.PubDate = &d
		}
		row.Languages = rec.Languages
		row.Comments = rec.Comments
		row.DOI = rec.DOI()
		row.Tags = rec.Tags
	}
	return row
}

// bookRowToMap joins slices with "; " since topics may contain commas.
func bookRowToMap(row BookRow) map[string]any {
	return cmdutil.StructToMap(row, cmdutil.StructToMapOptions{
		KeyOverrides:     map[string]string{"PubDate": "pubdate"},
		JoinStringSlices: true,
		JoinSeparator:    "; ",
	})
}

// WriteOutputs writes run to every target set in out. A failing target does
// not keep the others from being written; all failures are returned joined.
func WriteOutputs(run *Run, out cmdutil.OutputConfig, overwrite bool) error {
	var errs []error

	if out.JSONOutput != "" {
		if _, err := fileutil.WriteJSONFile(run.Records(), out.JSONOutput, overwrite); err != nil {
			errs = append(errs, fmt.Errorf("json output: %w", err))
		}
	}

	rows := make([]BookRow, 0, len(run.Items))
	for _, it := range run.Items {
		rows = append(rows, NewBookRow(run.ID, it))
	}

	if out.DBFile != "" {
		if err := cmdutil.WriteToDatastore(out.DBFile, rows, booksSchema, BooksTable, "Springer books", bookRowToMap); err != nil {
			errs = append(errs, fmt.Errorf("database output: %w", err))
		}
	}

	if out.DatasetteURL != "" {
		client := datastore.NewDatasetteClient(out.DatasetteURL, out.DatasetteDB, out.DatasetteAuth)
		if err := cmdutil.WriteToStore(client, rows, booksSchema, BooksTable, "Springer books", bookRowToMap); err != nil {
			errs = append(errs, fmt.Errorf("datasette output: %w", err))
		}
	}

	if out.MarkdownDir != "" {
		written, err := WriteNotes(run.Records(), out.MarkdownDir, overwrite)
		if err != nil {
			errs = append(errs, fmt.Errorf("markdown output: %w", err))
		}
		slog.Info("Wrote markdown notes", "directory", out.MarkdownDir, "count", written)
	}

	return errors.Join(errs...)
}

// WriteNotes writes one note per record into dir. An existing note is merged
// with the record unless overwrite is set, in which case it is replaced.
func WriteNotes(records []*metadata.Record, dir string, overwrite bool) (int, error) {
	written := 0
	for _, rec := range records {
		path := fileutil.GetMarkdownFilePath(fileutil.BookNoteName(rec.Title, rec.ISBN), dir)

		note := obsidian.BookNote(rec)
		if !overwrite && fileutil.FileExists(path) {
			existing, err := os.ReadFile(path)
			if err != nil {
				return written, fmt.Errorf("reading %s: %w", path, err)
			}
			merged, err := obsidian.MergeBookNote(existing, rec)
			if err != nil {
				slog.Warn("Existing note has invalid frontmatter, leaving it untouched", "filename", path, "error", err)
				continue
			}
			note = merged
		}

		content, err := note.Build()
		if err != nil {
			return written, fmt.Errorf("building note for %s: %w", rec.ISBN, err)
		}
		if _, err := fileutil.WriteMarkdownFile(path, content, true); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
