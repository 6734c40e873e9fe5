package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName is the name of the application used in paths.
	AppName = "klutch"

	// ImageCacheDirName is the cache subdirectory that holds one file per cached asset.
	ImageCacheDirName = "ImageCache"

	// DownloadsDirName is the data subdirectory that receives downloaded videos.
	DownloadsDirName = "Downloads"
)

// GetCacheDir returns the platform-specific cache directory for the application.
// On Linux: ~/.cache/klutch/
// On macOS: ~/Library/Caches/klutch/
// On Windows: %LOCALAPPDATA%\klutch\
func GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName), nil
}

// GetImageCacheDir returns <cache_dir>/ImageCache.
func GetImageCacheDir() (string, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, ImageCacheDirName), nil
}

// GetDataDir returns the platform-specific persistent data directory for the application.
// On Linux it follows XDG_DATA_HOME with a fallback to ~/.local/share.
func GetDataDir() (string, error) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", AppName), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// GetDownloadDir returns <data_dir>/Downloads.
func GetDownloadDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, DownloadsDirName), nil
}
