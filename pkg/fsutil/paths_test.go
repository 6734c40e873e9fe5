package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetImageCacheDir(t *testing.T) {
	cacheDir, err := GetCacheDir()
	require.NoError(t, err)

	imageDir, err := GetImageCacheDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cacheDir, ImageCacheDirName), imageDir)
	assert.Equal(t, AppName, filepath.Base(cacheDir))
}

func TestGetDownloadDir_UsesXDGDataHome(t *testing.T) {
	if isDesktopDefaultPlatform() {
		t.Skip("XDG_DATA_HOME is only honored on unix-like platforms")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	dir, err := GetDownloadDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, AppName, DownloadsDirName), dir)
}
