package cache

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sources maps CLI source names to their cache tables.
var Sources = map[string]string{
	"springer":    SpringerCacheTable,
	"openlibrary": OpenLibraryCacheTable,
}

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache source to invalidate: springer, openlibrary" required:""`
}

func (i *InvalidateCacheCmd) Run() error {
	cacheDB := viper.GetString("cache.dbfile")

	slog.Info("Invalidating cache", "source", i.Source, "database", cacheDB)

	tableName, ok := Sources[i.Source]
	if !ok {
		return fmt.Errorf("invalid cache source '%s'; valid sources are: %s", i.Source, strings.Join(sourceNames(), ", "))
	}

	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	rowsDeleted, err := cacheInstance.InvalidateSource(tableName)
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", rowsDeleted)
	return nil
}

// PruneCacheCmd removes expired entries from every cache table.
type PruneCacheCmd struct{}

func (p *PruneCacheCmd) Run() error {
	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	ttl := configuredTTL()
	for _, name := range sourceNames() {
		if err := cacheInstance.ClearExpired(Sources[name], ttl); err != nil {
			return fmt.Errorf("failed to prune %s cache: %w", name, err)
		}
	}
	return nil
}

func sourceNames() []string {
	names := make([]string, 0, len(Sources))
	for name := range Sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
