package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lepinkainen/springer-meta/internal/config"
	"github.com/lepinkainen/springer-meta/internal/metadata"
	"github.com/lepinkainen/springer-meta/internal/springer"
	"gopkg.in/yaml.v3"
)

// IdentifyCmd looks up a single ISBN.
type IdentifyCmd struct {
	ISBN    string        `help:"ISBN to look up" name:"isbn"`
	Timeout time.Duration `help:"Fetch timeout (0 uses springer.timeout)" default:"0s"`
	Format  string        `help:"Output format" enum:"json,yaml" default:"json"`
}

// Run prints the record. No record, for whatever reason, prints nothing and
// still succeeds; the reason is in the log.
func (c *IdentifyCmd) Run() error {
	source := springer.NewFromConfig(config.Load().Springer)

	sink := metadata.NewSliceSink()
	identifiers := map[string]string{metadata.IdentifierISBN: c.ISBN}
	source.Identify(context.Background(), slog.Default(), sink, nil, "", nil, identifiers, c.Timeout)

	for _, rec := range sink.Records() {
		if err := writeRecord(rec, c.Format); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(rec *metadata.Record, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	}
}
