package cmd

import "github.com/lepinkainen/springer-meta/internal/cache"

// CacheCmd groups the cache maintenance commands.
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Delete every cached entry of a source"`
	Prune      cache.PruneCacheCmd      `cmd:"" help:"Delete expired cache entries"`
}
