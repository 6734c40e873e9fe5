// Package testutil provides fixtures shared by command-level tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/model"
)

// Fixture paths served by MediaServer.
const (
	ListingPath     = "/videos.json"
	ThumbnailPath   = "/thumbs/1.png"
	BrokenThumbPath = "/thumbs/broken.png"
	MediaPath       = "/media/BigBuckBunny.mp4"
	MediaFileName   = "BigBuckBunny.mp4"
)

// MediaSize is the length of the file served at MediaPath.
const MediaSize = 10 * 1024

// MediaServer serves a one-item listing, its thumbnail and its media file.
type MediaServer struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// NewMediaServer starts a MediaServer that is closed when the test ends.
func NewMediaServer(t *testing.T) *MediaServer {
	t.Helper()
	s := &MediaServer{hits: map[string]int{}}
	thumb := PNG(t, 4, 3)
	media := bytes.Repeat([]byte("frame"), MediaSize/len("frame"))

	mux := http.NewServeMux()
	mux.HandleFunc(ListingPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.Videos())
	})
	mux.HandleFunc(ThumbnailPath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(thumb)
	})
	mux.HandleFunc(BrokenThumbPath, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not an image</html>"))
	})
	mux.HandleFunc(MediaPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(media)))
		_, _ = w.Write(media)
	})

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// Hits returns how many requests were made for path.
func (s *MediaServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Videos returns the listing served by s.
func (s *MediaServer) Videos() []model.Video {
	return []model.Video{{
		ID:           "1",
		Title:        "Big Buck Bunny",
		ThumbnailURL: s.URL + ThumbnailPath,
		Duration:     "8:18",
		UploadTime:   "May 9, 2011",
		Views:        "24,969,123",
		Author:       "Vlc Media Player",
		VideoURL:     s.URL + MediaPath,
		Description:  "Big Buck Bunny tells the story of a giant rabbit with a heart bigger than himself.",
		Subscriber:   "25254545 Subscribers",
		IsLive:       true,
	}}
}

// PNG encodes a w x h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// TestConfig locates a config file written by SetupTestConfig.
type TestConfig struct {
	Path        string
	CacheDir    string
	DownloadDir string
}

// SetupTestConfig writes a config file pointing at baseURL with storage in a temporary directory.
func SetupTestConfig(t *testing.T, baseURL string) TestConfig {
	t.Helper()

	tempDir := t.TempDir()
	tc := TestConfig{
		Path:        filepath.Join(tempDir, "config.yaml"),
		CacheDir:    filepath.Join(tempDir, "cache"),
		DownloadDir: filepath.Join(tempDir, "downloads"),
	}

	configStr := fmt.Sprintf(`settings:
  base_url: %s
  listing_path: %s
  cache_dir: %s
  download_dir: %s
  http_timeout: 5s
  inactivity_timeout: 5s
  max_concurrent: 2
  output_format: text
  log_level: error
`, baseURL, ListingPath[1:], tc.CacheDir, tc.DownloadDir)

	logger.Debugf("Writing test config to: %s", tc.Path)
	if err := os.WriteFile(tc.Path, []byte(configStr), 0o600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return tc
}
