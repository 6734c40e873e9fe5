// Package cache implements the on-disk asset cache: one file per key under a
// dedicated directory, safe for concurrent use.
package cache

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/archive"
	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/fsutil"
)

// FileStore is a filesystem-backed Store. Writes to one key are serialized,
// unrelated keys proceed independently and Clear/Import exclude everything else.
type FileStore struct {
	dir      string
	archiver *archive.Manager

	// mu is held shared by Get/Put and exclusively by whole-directory operations.
	mu sync.RWMutex

	locksMu sync.Mutex
	locks   map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

var _ Maintainer = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir. The directory is created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:      dir,
		archiver: archive.NewManager(),
		locks:    make(map[string]*entryLock),
	}
}

// NewDefaultStore creates a store in the platform cache directory.
func NewDefaultStore() (*FileStore, error) {
	dir, err := fsutil.GetImageCacheDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user cache directory")
	}
	return NewFileStore(dir), nil
}

// Directory returns the cache directory path.
func (s *FileStore) Directory() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Get returns the cached bytes for url. Unreadable entries count as misses.
func (s *FileStore) Get(url string) ([]byte, bool) {
	key := Key(url)

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to read cache entry", logger.Fields{"url": url, "key": key, "error": err.Error()})
		}
		return nil, false
	}
	return data, true
}

// Put stores data for url, replacing any previous entry. Failures are logged and swallowed.
func (s *FileStore) Put(url string, data []byte) {
	key := Key(url)

	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock := s.lockEntry(key)
	defer unlock()

	if err := s.write(key, data); err != nil {
		logger.Warn("Failed to write cache entry", logger.Fields{"url": url, "key": key, "error": err.Error()})
		return
	}
	logger.Debug("Cached asset", logger.Fields{"key": key, "bytes": len(data)})
}

func (s *FileStore) write(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, fsutil.DirModeSecure); err != nil {
		return errors.Wrapf(err, "failed to create cache directory %s", s.dir)
	}
	return fsutil.WriteFileAtomic(s.path(key), data, fsutil.FileModeSecure)
}

func (s *FileStore) lockEntry(key string) func() {
	s.locksMu.Lock()
	lock := s.locks[key]
	if lock == nil {
		lock = &entryLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.locksMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.locksMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, key)
		}
		s.locksMu.Unlock()
	}
}

// Clear removes every entry. Entries that cannot be removed are logged and
// reported through the returned error; the rest are still removed.
func (s *FileStore) Clear() (*CleanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &CleanResult{}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		logger.Warn("Failed to list cache directory", logger.Fields{"directory": s.dir, "error": err.Error()})
		return result, errors.Wrap(ErrCacheClean, err.Error())
	}

	var failed []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		if err := os.Remove(s.path(entry.Name())); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to remove cache entry", logger.Fields{"key": entry.Name(), "error": err.Error()})
			failed = append(failed, err)
			continue
		}
		result.Entries++
		result.TotalFreed += size
	}

	if len(failed) > 0 {
		return result, errors.Wrap(ErrCacheClean, stderrors.Join(failed...).Error())
	}
	return result, nil
}

// Info returns the entry count and total size of the cache.
func (s *FileStore) Info() (*Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := &Info{Directory: s.dir}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			info.DirMissing = true
			return info, nil
		}
		return nil, errors.Wrap(ErrCacheInfo, err.Error())
	}

	for _, entry := range entries {
		if entry.IsDir() || !isKey(entry.Name()) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		info.Entries++
		info.TotalSize += fi.Size()
		if fi.ModTime().After(info.LastWrite) {
			info.LastWrite = fi.ModTime()
		}
	}
	return info, nil
}

// Export writes all entries into a gzip-compressed tar archive.
func (s *FileStore) Export(ctx context.Context, archivePath string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(s.dir, fsutil.DirModeSecure); err != nil {
		return errors.Wrap(ErrCacheExport, err.Error())
	}
	if err := s.archiver.Create(ctx, s.dir, archivePath); err != nil {
		return errors.Wrap(ErrCacheExport, err.Error())
	}
	return nil
}

// Import loads entries from an archive created by Export, overwriting entries
// with the same key. Archive members that are not valid keys are skipped.
// It returns the number of imported entries.
func (s *FileStore) Import(ctx context.Context, archivePath string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, fsutil.DirModeSecure); err != nil {
		return 0, errors.Wrap(ErrCacheImport, err.Error())
	}
	staging, err := os.MkdirTemp(filepath.Dir(s.dir), ".import-*")
	if err != nil {
		return 0, errors.Wrap(ErrCacheImport, err.Error())
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := s.archiver.ExtractAll(ctx, archivePath, staging); err != nil {
		return 0, errors.Wrap(ErrCacheImport, err.Error())
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return 0, errors.Wrap(ErrCacheImport, err.Error())
	}
	imported := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isKey(entry.Name()) {
			logger.Debug("Skipping archive member", logger.Fields{"name": entry.Name()})
			continue
		}
		if err := fsutil.Move(filepath.Join(staging, entry.Name()), s.path(entry.Name())); err != nil {
			return imported, errors.Wrap(ErrCacheImport, err.Error())
		}
		imported++
	}
	return imported, nil
}
