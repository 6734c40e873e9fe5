package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/model"
	"github.com/klutchshots/klutch/test/testutil"
)

func setup(t *testing.T) (*testutil.MediaServer, testutil.TestConfig) {
	t.Helper()
	srv := testutil.NewMediaServer(t)
	tc := testutil.SetupTestConfig(t, srv.URL)

	ConfigPath = &tc.Path
	t.Cleanup(func() { ConfigPath = nil })

	var logs bytes.Buffer
	logger.SetTestOutput(&logs)
	t.Cleanup(logger.UnsetTestOutput)
	return srv, tc
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVideosCmd_Table(t *testing.T) {
	setup(t)

	out, err := execute(t, NewVideosCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Big Buck Bunny")
	assert.Contains(t, out, "8:18")
	assert.Contains(t, out, "yes")
}

func TestVideosCmd_JSONWithPrefetch(t *testing.T) {
	srv, _ := setup(t)

	out, err := execute(t, NewVideosCmd(), "--json", "--prefetch")
	require.NoError(t, err)

	var videos []model.Video
	require.NoError(t, json.Unmarshal([]byte(out), &videos))
	assert.Equal(t, srv.Videos(), videos)
	assert.Equal(t, 1, srv.Hits(testutil.ThumbnailPath))

	// the thumbnail is now served from the cache
	out, err = execute(t, NewImageCmd(), srv.URL+testutil.ThumbnailPath)
	require.NoError(t, err)
	assert.Equal(t, "png 4x3", strings.SplitN(out, " (", 2)[0])
	assert.Equal(t, 1, srv.Hits(testutil.ThumbnailPath))
}

func TestVideosCmd_ServerUnreachable(t *testing.T) {
	srv, _ := setup(t)
	srv.Close()

	_, err := execute(t, NewVideosCmd())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.Contains(t, err.Error(), "could not reach the server")
}

func TestImageCmd_NoImage(t *testing.T) {
	srv, _ := setup(t)

	out, err := execute(t, NewImageCmd(), srv.URL+testutil.BrokenThumbPath)
	require.NoError(t, err)
	assert.Equal(t, "no image\n", out)
}

func TestImageCmd_WritesOutput(t *testing.T) {
	srv, tc := setup(t)
	target := filepath.Join(t.TempDir(), "thumb.png")

	_, err := execute(t, NewImageCmd(), "--no-cache", "-o", target, srv.URL+testutil.ThumbnailPath)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, testutil.PNG(t, 4, 3), data)

	// the lookup is skipped but the fresh image still refreshes the cache
	entries, err := os.ReadDir(tc.CacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDownloadCmd_ByID(t *testing.T) {
	_, tc := setup(t)

	out, err := execute(t, NewDownloadCmd(), "--quiet", "1")
	require.NoError(t, err)

	want := filepath.Join(tc.DownloadDir, testutil.MediaFileName)
	assert.Equal(t, want+"\n", out)
	info, err := os.Stat(want)
	require.NoError(t, err)
	assert.EqualValues(t, testutil.MediaSize, info.Size())
}

func TestDownloadCmd_ProgressBar(t *testing.T) {
	srv, _ := setup(t)

	out, err := execute(t, NewDownloadCmd(), srv.URL+testutil.MediaPath)
	require.NoError(t, err)
	assert.Contains(t, out, "100%")
}

func TestDownloadCmd_NotFound(t *testing.T) {
	srv, _ := setup(t)

	_, err := execute(t, NewDownloadCmd(), "-q", srv.URL+"/media/missing.mp4")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestCacheCmds(t *testing.T) {
	srv, tc := setup(t)

	_, err := execute(t, NewImageCmd(), srv.URL+testutil.ThumbnailPath)
	require.NoError(t, err)

	out, err := execute(t, NewCacheCmd(), "dir")
	require.NoError(t, err)
	assert.Equal(t, tc.CacheDir+"\n", out)

	out, err = execute(t, NewCacheCmd(), "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:      1")

	archive := filepath.Join(t.TempDir(), "cache.tar.gz")
	_, err = execute(t, NewCacheCmd(), "export", archive)
	require.NoError(t, err)

	_, err = execute(t, NewCacheCmd(), "clean")
	require.NoError(t, err)
	out, err = execute(t, NewCacheCmd(), "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:      0")

	_, err = execute(t, NewCacheCmd(), "import", archive)
	require.NoError(t, err)
	out, err = execute(t, NewCacheCmd(), "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:      1")
}

func TestConfigCmds(t *testing.T) {
	srv, tc := setup(t)

	out, err := execute(t, NewConfigCmd(), "get", "base_url")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"\n", out)

	_, err = execute(t, NewConfigCmd(), "set", "max_concurrent", "8")
	require.NoError(t, err)
	out, err = execute(t, NewConfigCmd(), "get", "max_concurrent")
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)

	_, err = execute(t, NewConfigCmd(), "set", "max_concurrent", "0")
	assert.ErrorIs(t, err, errors.ErrMaxConcurrentInvalid)

	_, err = execute(t, NewConfigCmd(), "get", "nope")
	assert.ErrorIs(t, err, errors.ErrUnknownConfigKey)

	out, err = execute(t, NewConfigCmd(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "inactivity_timeout")
	assert.Contains(t, out, "5s")

	assert.Contains(t, out, "listing")
	assert.Contains(t, out, srv.URL+"/videos.json")

	out, err = execute(t, NewConfigCmd(), "path")
	require.NoError(t, err)
	assert.Equal(t, tc.Path+"\n", out)

	_, err = execute(t, NewConfigCmd(), "set", "inactivity_timeout", "soon")
	assert.Error(t, err)

	_, err = execute(t, NewConfigCmd(), "init")
	assert.ErrorIs(t, err, errors.ErrConfigFileExists)
}

func TestConfigInit_Force(t *testing.T) {
	_, tc := setup(t)

	_, err := execute(t, NewConfigCmd(), "init", "--force")
	require.NoError(t, err)

	out, err := execute(t, NewConfigCmd(), "get", "listing_path")
	require.NoError(t, err)
	assert.Equal(t, "videos.json\n", out)

	data, err := os.ReadFile(tc.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "inactivity_timeout")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
