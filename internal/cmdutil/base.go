package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// OutputConfig holds the output targets of a batch run. An empty target is disabled.
type OutputConfig struct {
	MarkdownDir   string
	JSONOutput    string
	DBFile        string
	DatasetteURL  string
	DatasetteDB   string
	DatasetteAuth string
}

// Enabled reports whether at least one output target is set.
func (c *OutputConfig) Enabled() bool {
	return c.MarkdownDir != "" || c.JSONOutput != "" || c.DBFile != "" || c.DatasetteURL != ""
}

// SetupOutputs fills unset targets from the batch.* and datasette.* config
// keys and creates the directories the file targets live in.
func SetupOutputs(cfg *OutputConfig) error {
	if cfg.MarkdownDir == "" {
		cfg.MarkdownDir = viper.GetString("batch.markdown")
	}
	if cfg.JSONOutput == "" {
		cfg.JSONOutput = viper.GetString("batch.json")
	}
	if cfg.DBFile == "" {
		cfg.DBFile = viper.GetString("batch.db")
	}
	if cfg.DatasetteURL == "" {
		cfg.DatasetteURL = viper.GetString("datasette.url")
	}
	if cfg.DatasetteDB == "" {
		cfg.DatasetteDB = viper.GetString("datasette.database")
	}
	if cfg.DatasetteAuth == "" {
		cfg.DatasetteAuth = viper.GetString("datasette.token")
	}

	if cfg.MarkdownDir != "" {
		cfg.MarkdownDir = filepath.Clean(cfg.MarkdownDir)
		if err := os.MkdirAll(cfg.MarkdownDir, 0755); err != nil {
			return fmt.Errorf("failed to create markdown output directory: %w", err)
		}
	}

	for _, file := range []string{cfg.JSONOutput, cfg.DBFile} {
		if file == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return fmt.Errorf("failed to create output directory for %s: %w", file, err)
		}
	}

	return nil
}
