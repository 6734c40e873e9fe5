package cache

import (
	"context"
	"time"
)

// Store is a best-effort mapping from source URLs to raw asset bytes.
// A miss is reported through the boolean result, never as an error.
type Store interface {
	Get(url string) ([]byte, bool)
	Put(url string, data []byte)
	Clear() (*CleanResult, error)
}

// Maintainer exposes the maintenance operations used by the CLI.
type Maintainer interface {
	Store
	Info() (*Info, error)
	Directory() string
	Export(ctx context.Context, archivePath string) error
	Import(ctx context.Context, archivePath string) (int, error)
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	Entries    int
	TotalFreed int64
}

// Info represents cache information.
type Info struct {
	Directory  string
	Entries    int
	TotalSize  int64
	LastWrite  time.Time
	DirMissing bool
}
