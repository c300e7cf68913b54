package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults for the Springer Link source.
const (
	DefaultBaseURL           = "https://link.springer.com"
	DefaultTimeout           = 30 * time.Second
	DefaultLanguage          = "de"
	DefaultPublisher         = "Springer"
	DefaultRequestsPerSecond = 1.0

	DefaultOpenLibraryURL     = "https://openlibrary.org"
	DefaultOpenLibraryTimeout = 10 * time.Second
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing markdown files should be overwritten
	OverwriteFiles bool
)

// Springer holds the settings for the Springer Link lookup source.
type Springer struct {
	BaseURL           string
	Timeout           time.Duration
	InsecureTLS       bool
	Language          string
	DefaultPublisher  string
	RequestsPerSecond float64
	Cache             bool
}

// OpenLibrary holds the settings for the OpenLibrary fallback of the batch pipeline.
type OpenLibrary struct {
	Enabled           bool
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Cache             bool
}

// Batch holds the default output targets of the batch pipeline.
type Batch struct {
	JSONOutput     string
	DBFile         string
	MarkdownOutput string
}

// Datasette is a remote Datasette instance batch rows are posted to.
type Datasette struct {
	URL      string
	Database string
	Token    string
}

// Config is the typed view over the viper settings.
type Config struct {
	Springer    Springer
	OpenLibrary OpenLibrary
	Batch       Batch
	Datasette   Datasette
	CacheDB     string
	CacheTTL    time.Duration
}

// SetDefaults registers default values for every known key.
func SetDefaults() {
	viper.SetDefault("springer.base_url", DefaultBaseURL)
	viper.SetDefault("springer.timeout", DefaultTimeout.String())
	viper.SetDefault("springer.insecure_tls", true)
	viper.SetDefault("springer.language", DefaultLanguage)
	viper.SetDefault("springer.default_publisher", DefaultPublisher)
	viper.SetDefault("springer.requests_per_second", DefaultRequestsPerSecond)
	viper.SetDefault("springer.cache", true)

	viper.SetDefault("openlibrary.enabled", false)
	viper.SetDefault("openlibrary.base_url", DefaultOpenLibraryURL)
	viper.SetDefault("openlibrary.timeout", DefaultOpenLibraryTimeout.String())
	viper.SetDefault("openlibrary.requests_per_second", DefaultRequestsPerSecond)
	viper.SetDefault("openlibrary.cache", true)

	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h")

	viper.SetDefault("batch.input", "")
	viper.SetDefault("batch.json", "")
	viper.SetDefault("batch.db", "")
	viper.SetDefault("batch.markdown", "")
	viper.SetDefault("datasette.url", "")
	viper.SetDefault("datasette.database", "springer")
	viper.SetDefault("datasette.token", "")
	viper.SetDefault("OverwriteFiles", false)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()
	OverwriteFiles = viper.GetBool("OverwriteFiles")
}

// Load reads the current viper state into a Config.
// Invalid durations fall back to their defaults.
func Load() Config {
	return Config{
		Springer: Springer{
			BaseURL:           viper.GetString("springer.base_url"),
			Timeout:           durationOr(viper.GetString("springer.timeout"), DefaultTimeout),
			InsecureTLS:       viper.GetBool("springer.insecure_tls"),
			Language:          viper.GetString("springer.language"),
			DefaultPublisher:  viper.GetString("springer.default_publisher"),
			RequestsPerSecond: viper.GetFloat64("springer.requests_per_second"),
			Cache:             viper.GetBool("springer.cache"),
		},
		OpenLibrary: OpenLibrary{
			Enabled:           viper.GetBool("openlibrary.enabled"),
			BaseURL:           viper.GetString("openlibrary.base_url"),
			Timeout:           durationOr(viper.GetString("openlibrary.timeout"), DefaultOpenLibraryTimeout),
			RequestsPerSecond: viper.GetFloat64("openlibrary.requests_per_second"),
			Cache:             viper.GetBool("openlibrary.cache"),
		},
		Batch: Batch{
			JSONOutput:     viper.GetString("batch.json"),
			DBFile:         viper.GetString("batch.db"),
			MarkdownOutput: viper.GetString("batch.markdown"),
		},
		Datasette: Datasette{
			URL:      viper.GetString("datasette.url"),
			Database: viper.GetString("datasette.database"),
			Token:    viper.GetString("datasette.token"),
		},
		CacheDB:  viper.GetString("cache.dbfile"),
		CacheTTL: durationOr(viper.GetString("cache.ttl"), 720*time.Hour),
	}
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

func durationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
