package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/lepinkainen/springer-meta/internal/cmdutil"
	"github.com/lepinkainen/springer-meta/internal/config"
	"github.com/lepinkainen/springer-meta/internal/enrichment/openlibrary"
	"github.com/lepinkainen/springer-meta/internal/errors"
	"github.com/lepinkainen/springer-meta/internal/pipeline"
	"github.com/lepinkainen/springer-meta/internal/springer"
	"github.com/spf13/viper"
)

// BatchCmd looks up every ISBN of an input file.
type BatchCmd struct {
	Input        string        `short:"f" help:"ISBN list: one ISBN per line, or a CSV with an ISBN13/ISBN column"`
	JSON         string        `help:"Write records to this JSON file (defaults to batch.json)"`
	DB           string        `name:"db" help:"Write rows to this SQLite database (defaults to batch.db)"`
	Markdown     string        `help:"Write one markdown note per book into this directory (defaults to batch.markdown)"`
	DatasetteURL string        `name:"datasette-url" help:"Post rows to this Datasette instance (defaults to datasette.url)"`
	OpenLibrary  bool          `name:"openlibrary" help:"Fill fields missing on Springer Link from OpenLibrary"`
	Timeout      time.Duration `help:"Fetch timeout per ISBN (0 uses springer.timeout)" default:"0s"`
}

// Run executes the batch pipeline. An interrupt stops the run before the
// next ISBN; the records gathered so far are still written.
func (b *BatchCmd) Run() error {
	input := b.Input
	if input == "" {
		input = viper.GetString("batch.input")
	}
	if input == "" {
		return fmt.Errorf("input file is required (provide via --input flag or batch.input in config)")
	}

	isbns, err := pipeline.ReadISBNs(input)
	if err != nil {
		return err
	}
	if len(isbns) == 0 {
		slog.Warn("No ISBNs found", "input", input)
		return nil
	}

	out := cmdutil.OutputConfig{
		MarkdownDir:  b.Markdown,
		JSONOutput:   b.JSON,
		DBFile:       b.DB,
		DatasetteURL: b.DatasetteURL,
	}
	if err := cmdutil.SetupOutputs(&out); err != nil {
		return err
	}
	if !out.Enabled() {
		slog.Warn("No output configured, results are only summarized")
	}

	cfg := config.Load()
	opts := pipeline.Options{Timeout: b.Timeout}
	if b.OpenLibrary || cfg.OpenLibrary.Enabled {
		opts.Fallback = openlibrary.New(openlibrary.Options{
			BaseURL:           cfg.OpenLibrary.BaseURL,
			Timeout:           cfg.OpenLibrary.Timeout,
			RequestsPerSecond: cfg.OpenLibrary.RequestsPerSecond,
			Cache:             cfg.OpenLibrary.Cache,
		})
	}

	var abort atomic.Bool
	opts.Abort = &abort
	stop := abortOnInterrupt(&abort)
	defer stop()

	run, runErr := pipeline.New(springer.NewFromConfig(cfg.Springer), opts).Run(context.Background(), isbns)

	writeErr := pipeline.WriteOutputs(run, out, config.OverwriteFiles)
	pipeline.Summarize(run).Log(slog.Default())

	if runErr != nil && !errors.IsStopProcessingError(runErr) {
		return runErr
	}
	if runErr != nil {
		slog.Warn("Batch run stopped early", "reason", runErr)
	}
	return writeErr
}

// abortOnInterrupt raises abort on the first interrupt. The returned func
// stops listening.
func abortOnInterrupt(abort *atomic.Bool) func() {
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		select {
		case <-sigCh:
			slog.Warn("Interrupt received, stopping after the current ISBN")
			abort.Store(true)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
