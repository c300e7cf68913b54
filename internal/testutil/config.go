package testutil

import (
	"testing"

	"github.com/lepinkainen/springer-meta/internal/config"
	"github.com/spf13/viper"
)

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	overwrite := config.OverwriteFiles
	viper.Reset()

	t.Cleanup(func() {
		config.OverwriteFiles = overwrite
		viper.Reset()
	})
}

// SetTestConfig resets viper to the application defaults with caching
// switched off and no request limit, so tests hit their fixture servers directly.
// baseURL replaces the Springer Link origin when non-empty.
func SetTestConfig(t *testing.T, baseURL string) {
	t.Helper()

	ResetConfig(t)
	config.InitConfig()
	config.OverwriteFiles = true

	viper.Set("cache.disabled", true)
	viper.Set("springer.cache", false)
	viper.Set("springer.requests_per_second", 0)
	if baseURL != "" {
		viper.Set("springer.base_url", baseURL)
	}
}

// SetupTestCache points the cache at a database inside env and enables it.
// Returns the cache database path.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	env.MkdirAll("cache")
	dbPath := env.Path("cache", "test-cache.db")

	viper.Set("cache.dbfile", dbPath)
	viper.Set("cache.ttl", "24h")
	viper.Set("cache.disabled", false)

	return dbPath
}
