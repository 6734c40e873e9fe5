package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/klutchshots/klutch/internal/logger"
)

// CacheOperation renders cache maintenance results for the command line.
type CacheOperation struct {
	store Maintainer
}

// NewCacheOperation creates a new cache operation instance.
func NewCacheOperation(store Maintainer) *CacheOperation {
	return &CacheOperation{
		store: store,
	}
}

// Clean removes all entries and describes what was freed.
func (op *CacheOperation) Clean() (string, error) {
	logger.Debug("Cleaning cache", logger.Fields{"directory": op.store.Directory()})

	result, err := op.store.Clear()
	if err != nil {
		return "", fmt.Errorf("failed to clean cache: %w", err)
	}

	if result.Entries == 0 {
		return "No files were removed from the cache.", nil
	}
	return fmt.Sprintf("Successfully cleaned cache. Removed %d %s and freed %s of disk space.",
		result.Entries, plural(result.Entries, "entry", "entries"), humanize.Bytes(uint64(result.TotalFreed))), nil
}

// GetInfo returns a human-readable cache summary.
func (op *CacheOperation) GetInfo() (string, error) {
	info, err := op.store.Info()
	if err != nil {
		return "", fmt.Errorf("failed to get cache info: %w", err)
	}

	lastWrite := "never"
	if !info.LastWrite.IsZero() {
		lastWrite = fmt.Sprintf("%s (%s)", info.LastWrite.Format(time.RFC1123), humanize.Time(info.LastWrite))
	}

	return fmt.Sprintf(`Cache Information:
  Directory:    %s
  Entries:      %s
  Total Size:   %s
  Last Write:   %s`,
		info.Directory,
		humanize.Comma(int64(info.Entries)),
		humanize.Bytes(uint64(info.TotalSize)),
		lastWrite,
	), nil
}

// GetDirectory returns the cache directory path.
func (op *CacheOperation) GetDirectory() string {
	return op.store.Directory()
}

// Export writes the cache to archivePath.
func (op *CacheOperation) Export(ctx context.Context, archivePath string) (string, error) {
	if err := op.store.Export(ctx, archivePath); err != nil {
		return "", err
	}
	return fmt.Sprintf("Exported cache to %s", archivePath), nil
}

// Import loads entries from archivePath.
func (op *CacheOperation) Import(ctx context.Context, archivePath string) (string, error) {
	n, err := op.store.Import(ctx, archivePath)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Imported %d cache %s from %s", n, plural(n, "entry", "entries"), archivePath), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
