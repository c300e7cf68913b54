package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const (
	// DefaultCacheTTL is the default time-to-live for cached entries (30 days)
	DefaultCacheTTL = 720 * time.Hour
	// NegativeCacheTTL is the TTL for "not found" responses (7 days)
	NegativeCacheTTL = 168 * time.Hour
)

// FetchFunc represents a function that fetches data from an external source
type FetchFunc[T any] func() (T, error)

// CacheDB manages the SQLite database connection for caching
type CacheDB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

var (
	globalCache     *CacheDB
	globalCacheOnce sync.Once
)

// ResetGlobalCache closes the current global cache and resets the singleton
// so the next call to GetGlobalCache will create a new instance.
// This is primarily for testing purposes.
func ResetGlobalCache() error {
	if globalCache != nil {
		if err := globalCache.Close(); err != nil {
			return err
		}
	}
	globalCache = nil
	globalCacheOnce = sync.Once{}
	return nil
}

// GetGlobalCache returns the singleton cache database instance
func GetGlobalCache() (*CacheDB, error) {
	var initErr error
	globalCacheOnce.Do(func() {
		dbPath := viper.GetString("cache.dbfile")
		if dbPath == "" {
			dbPath = "./cache.db"
		}
		globalCache, initErr = NewCacheDB(dbPath)
		if initErr != nil {
			return
		}
		for _, schema := range AllCacheSchemas {
			if err := globalCache.CreateTable(schema); err != nil {
				initErr = fmt.Errorf("failed to create cache table: %w", err)
				return
			}
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	return globalCache, nil
}

// NewCacheDB creates a new CacheDB instance and opens the database connection
func NewCacheDB(dbPath string) (*CacheDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	return &CacheDB{
		db:   db,
		path: dbPath,
	}, nil
}

// Path returns the database file the cache was opened with.
func (c *CacheDB) Path() string {
	return c.path
}

// CreateTable creates a table using the provided schema
func (c *CacheDB) CreateTable(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *CacheDB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// InvalidateSource deletes all entries from the specified cache table
// tableName must be one of the valid cache table names (e.g., "springer_cache")
// Returns the number of rows deleted
func (c *CacheDB) InvalidateSource(tableName string) (int64, error) {
	if err := validateTableName(tableName); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Cache table cleared", "table", tableName, "rows_deleted", rowsAffected)
	return rowsAffected, nil
}

// validateTableName checks if the table name is in the whitelist
// to prevent SQL injection attacks
func validateTableName(tableName string) error {
	if !ValidCacheTableNames[tableName] {
		return fmt.Errorf("invalid cache table name: %s", tableName)
	}
	return nil
}

// Disabled reports whether caching is switched off via cache.disabled.
func Disabled() bool {
	return viper.GetBool("cache.disabled")
}

// configuredTTL reads cache.ttl, falling back to DefaultCacheTTL.
func configuredTTL() time.Duration {
	ttlStr := viper.GetString("cache.ttl")
	if ttlStr == "" {
		return DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		slog.Warn("Invalid cache TTL, using default", "ttl", ttlStr, "error", err)
		return DefaultCacheTTL
	}
	return ttl
}

// GetOrFetch retrieves data from cache or fetches it using the provided function
// T is the type of data being cached
// tableName is the cache table to use (e.g., "springer_cache", "openlibrary_cache")
// cacheKey is the unique identifier for this cache entry (e.g., ISBN)
// fetchFunc is called if the data is not found in cache or if the cache has expired
func GetOrFetch[T any](tableName, cacheKey string, fetchFunc FetchFunc[T]) (T, bool, error) {
	return getOrFetch(tableName, cacheKey, fetchFunc, nil, nil)
}

// GetOrFetchWithPolicy retrieves data from cache or fetches it using the provided function, with optional control
// over whether a fetched value should be cached.
// If shouldCache is nil, all fetched values are cached (default behaviour).
func GetOrFetchWithPolicy[T any](tableName, cacheKey string, fetchFunc FetchFunc[T], shouldCache func(T) bool) (T, bool, error) {
	return getOrFetch(tableName, cacheKey, fetchFunc, shouldCache, nil)
}

// GetOrFetchWithTTL retrieves data from cache or fetches it using the provided function, with a custom TTL.
// This is useful for negative caching where you want to cache "not found" responses with a shorter TTL.
// The ttlSelector function is called after fetching to determine which TTL to store the entry with.
func GetOrFetchWithTTL[T any](tableName, cacheKey string, fetchFunc FetchFunc[T], ttlSelector func(T) time.Duration) (T, bool, error) {
	return getOrFetch(tableName, cacheKey, fetchFunc, nil, ttlSelector)
}

// SelectNegativeCacheTTL returns a standard TTL selector for negative caching.
// Use this when you want to cache "not found" responses with a shorter TTL (7 days) than
// successful responses (30 days).
//
// The isNotFound function should return true if the result represents a "not found" response.
//
// Example:
//
//	cache.GetOrFetchWithTTL("openlibrary_cache", isbn,
//	    func() (*cachedBook, error) {
//	        book, err := fetchFromAPI(isbn)
//	        if errors.Is(err, book.ErrBookNotFound) {
//	            return &cachedBook{NotFound: true}, nil
//	        }
//	        return &cachedBook{Book: book}, err
//	    },
//	    cache.SelectNegativeCacheTTL(func(r *cachedBook) bool {
//	        return r.NotFound
//	    }))
func SelectNegativeCacheTTL[T any](isNotFound func(T) bool) func(T) time.Duration {
	return func(result T) time.Duration {
		if isNotFound(result) {
			return NegativeCacheTTL
		}
		return DefaultCacheTTL
	}
}

func getOrFetch[T any](tableName, cacheKey string, fetchFunc FetchFunc[T], shouldCache func(T) bool, ttlSelector func(T) time.Duration) (T, bool, error) {
	var zero T

	if Disabled() {
		data, err := fetchFunc()
		return data, false, err
	}

	cache, err := GetGlobalCache()
	if err != nil {
		// If cache initialization fails, fall back to direct fetch
		slog.Warn("Failed to initialize cache, fetching directly", "error", err)
		data, fetchErr := fetchFunc()
		return data, false, fetchErr
	}

	ttl := configuredTTL()

	cached, fromCache, err := cache.Get(tableName, cacheKey, ttl)
	if err == nil && fromCache {
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			slog.Debug("Cache hit", "table", tableName, "key", cacheKey)
			return result, true, nil
		}
		slog.Warn("Failed to unmarshal cached data, will refetch", "table", tableName, "key", cacheKey, "error", err)
	}

	slog.Debug("Cache miss, fetching data", "table", tableName, "key", cacheKey)
	data, err := fetchFunc()
	if err != nil {
		return zero, false, fmt.Errorf("failed to fetch data: %w", err)
	}

	if shouldCache != nil && !shouldCache(data) {
		slog.Debug("Skipping cache store per policy", "table", tableName, "key", cacheKey)
		return data, false, nil
	}

	var entryTTL time.Duration
	if ttlSelector != nil {
		entryTTL = ttlSelector(data)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "table", tableName, "key", cacheKey, "error", err)
		return data, false, nil
	}
	// Caching failure shouldn't stop the lookup
	if err := cache.SetWithTTL(tableName, cacheKey, string(jsonData), entryTTL); err != nil {
		slog.Warn("Failed to cache data", "table", tableName, "key", cacheKey, "error", err)
	} else {
		slog.Debug("Data cached successfully", "table", tableName, "key", cacheKey, "ttl", entryTTL)
	}

	return data, false, nil
}

// Get retrieves a cached value from the specified table.
// ttl applies to entries stored without their own lifetime.
// Returns the cached data, whether it was from cache, and any error
func (c *CacheDB) Get(tableName, key string, ttl time.Duration) (string, bool, error) {
	if err := validateTableName(tableName); err != nil {
		return "", false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	query := fmt.Sprintf(`
		SELECT data, expires_at, cached_at
		FROM %s
		WHERE cache_key = ?
	`, tableName)

	var data string
	var expiresAt sql.NullTime
	var cachedAt time.Time
	err := c.db.QueryRow(query, key).Scan(&data, &expiresAt, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query cache: %w", err)
	}

	now := time.Now().UTC()
	if expiresAt.Valid {
		if now.After(expiresAt.Time) {
			slog.Debug("Cache entry expired", "table", tableName, "key", key, "expires_at", expiresAt.Time)
			return "", false, nil
		}
		return data, true, nil
	}

	age := now.Sub(cachedAt)
	if age > ttl {
		slog.Debug("Cache expired", "table", tableName, "key", key, "age", age)
		return "", false, nil
	}

	return data, true, nil
}

// Set stores a value in the cache with the configured default lifetime
func (c *CacheDB) Set(tableName, key, data string) error {
	return c.SetWithTTL(tableName, key, data, 0)
}

// SetWithTTL stores a value in the cache with its own lifetime.
// A zero ttl defers to the lifetime passed to Get.
func (c *CacheDB) SetWithTTL(tableName, key, data string, ttl time.Duration) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (cache_key, data, expires_at, cached_at)
		VALUES (?, ?, ?, ?)
	`, tableName)

	now := time.Now().UTC()
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(ttl), Valid: true}
	}

	_, err := c.db.Exec(query, key, data, expiresAt, now)
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// ClearExpired removes expired cache entries from the specified table
func (c *CacheDB) ClearExpired(tableName string, ttl time.Duration) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE (expires_at IS NULL AND cached_at < ?)
		   OR (expires_at IS NOT NULL AND expires_at < ?)
	`, tableName)

	result, err := c.db.Exec(query, now.Add(-ttl), now)
	if err != nil {
		return fmt.Errorf("failed to clear expired cache: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		slog.Info("Cleared expired cache entries", "table", tableName, "count", rows)
	}

	return nil
}
