package cache

import "fmt"

// Common cache errors.
var (
	// ErrCacheClean is returned when there's an error cleaning the cache.
	ErrCacheClean = fmt.Errorf("failed to clean cache")

	// ErrCacheInfo is returned when there's an error getting cache information.
	ErrCacheInfo = fmt.Errorf("failed to get cache info")

	// ErrCacheExport is returned when the cache cannot be written to an archive.
	ErrCacheExport = fmt.Errorf("failed to export cache")

	// ErrCacheImport is returned when an archive cannot be loaded into the cache.
	ErrCacheImport = fmt.Errorf("failed to import cache")
)
