package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/springer-meta/internal/config"
	"github.com/spf13/viper"
)

// stdout receives command output; tests replace it.
var stdout io.Writer = os.Stdout

// CLI represents the complete command structure for the springer-meta application
type CLI struct {
	// Global flags
	Overwrite bool `help:"Overwrite existing output files instead of skipping or merging them"`
	Debug     bool `help:"Enable debug logging"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file (defaults to cache.dbfile)"`
	CacheTTL    string `help:"Cache time-to-live duration, e.g. 720h for 30 days (defaults to cache.ttl)"`
	NoCache     bool   `help:"Bypass the cache for this run"`

	Identify IdentifyCmd `cmd:"" help:"Look up one ISBN on Springer Link and print the record"`
	Batch    BatchCmd    `cmd:"" help:"Look up a list of ISBNs and write the records to files or a database"`
	Cache    CacheCmd    `cmd:"" help:"Manage the lookup cache"`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("springer-meta"),
		kong.Description("Book metadata from Springer Link, looked up by ISBN."),
		kong.UsageOnError(),
	}, options...)
	return kong.New(cli, options...)
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)
	initConfig()

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		slog.Error("Failed to build command line parser", "error", err)
		os.Exit(1)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if cli.Debug {
		initLogging(slog.LevelDebug)
	}
	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	// SPRINGER_BASE_URL maps to springer.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetOverwriteFiles(cli.Overwrite)

	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}
	if cli.NoCache {
		viper.Set("cache.disabled", true)
	}
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
