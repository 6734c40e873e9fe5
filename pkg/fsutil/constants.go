package fsutil

// File and directory permission constants used for cache entries, downloads and config files.
const (
	FileModeDefault = 0o644 // -rw-r--r--: downloaded media, config files
	FileModeSecure  = 0o640 // -rw-r-----: cache entries

	DirModeDefault = 0o755 // drwxr-xr-x: download and config directories
	DirModeSecure  = 0o750 // drwxr-x---: cache directories
	DirModePrivate = 0o700 // drwx------
)
