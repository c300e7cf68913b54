package cache

import "fmt"

// SQL schemas for cache tables.
// All cache tables share one layout keyed by "cache_key". expires_at is set for
// entries stored with their own lifetime; NULL means the configured cache.ttl applies.

// SpringerCacheTable holds fetched Springer Link book pages keyed by page URL.
const SpringerCacheTable = "springer_cache"

// OpenLibraryCacheTable holds OpenLibrary API responses keyed by ISBN.
const OpenLibraryCacheTable = "openlibrary_cache"

func tableSchema(table string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	expires_at DATETIME,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_cached_at ON %[1]s(cached_at);
`, table)
}

// SpringerCacheSchema defines the schema for the Springer page cache
var SpringerCacheSchema = tableSchema(SpringerCacheTable)

// OpenLibraryCacheSchema defines the schema for the OpenLibrary book cache
var OpenLibraryCacheSchema = tableSchema(OpenLibraryCacheTable)

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	SpringerCacheSchema,
	OpenLibraryCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	SpringerCacheTable:    true,
	OpenLibraryCacheTable: true,
}
