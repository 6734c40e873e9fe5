package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klutchshots/klutch/pkg/errors"
)

const twoVideos = `[
  {
    "id": "1",
    "title": "Big Buck Bunny",
    "thumbnailUrl": "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c5/Big_buck_bunny_poster_big.jpg/800px-Big_buck_bunny_poster_big.jpg",
    "duration": "8:18",
    "uploadTime": "May 9, 2011",
    "views": "24,969,123",
    "author": "Vlc Media Player",
    "videoUrl": "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
    "description": "Big Buck Bunny tells the story of a giant rabbit.",
    "subscriber": "25254545 Subscribers",
    "isLive": true
  },
  {
    "id": "2",
    "title": "The first Blender Open Movie from 2006",
    "thumbnailUrl": "https://i.ytimg.com/vi_webp/gWw23EYM9VM/maxresdefault.webp",
    "duration": "12:18",
    "uploadTime": "May 9, 2011",
    "views": "24,969,123",
    "author": "Blender Inc.",
    "videoUrl": "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
    "description": "Song : Raja Raja Kareja Mein Samaja",
    "subscriber": "25254545 Subscribers",
    "isLive": false
  }
]`

func TestDecodeVideos(t *testing.T) {
	videos, err := DecodeVideos([]byte(twoVideos))
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, Video{
		ID:           "1",
		Title:        "Big Buck Bunny",
		ThumbnailURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c5/Big_buck_bunny_poster_big.jpg/800px-Big_buck_bunny_poster_big.jpg",
		Duration:     "8:18",
		UploadTime:   "May 9, 2011",
		Views:        "24,969,123",
		Author:       "Vlc Media Player",
		VideoURL:     "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
		Description:  "Big Buck Bunny tells the story of a giant rabbit.",
		Subscriber:   "25254545 Subscribers",
		IsLive:       true,
	}, videos[0])
	assert.Equal(t, "2", videos[1].ID)
	assert.False(t, videos[1].IsLive)
}

func TestDecodeVideos_Empty(t *testing.T) {
	videos, err := DecodeVideos([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestDecodeVideos_TrailingWhitespace(t *testing.T) {
	videos, err := DecodeVideos([]byte(twoVideos + "\n\t \n"))
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestDecodeVideos_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"truncated", `[{"id":"1"`},
		{"object instead of array", `{"id":"1"}`},
		{"null", `null`},
		{"html error page", `<html>oops</html>`},
		{"wrong type", strings.Replace(twoVideos, `"isLive": true`, `"isLive": "yes"`, 1)},
		{"missing field", strings.Replace(twoVideos, `"author": "Vlc Media Player",`, ``, 1)},
		{"null field", strings.Replace(twoVideos, `"title": "Big Buck Bunny"`, `"title": null`, 1)},
		{"missing isLive", strings.Replace(twoVideos, `,
    "isLive": false`, ``, 1)},
		{"relative video url", strings.Replace(twoVideos, `http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4`, `BigBuckBunny.mp4`, 1)},
		{"trailing garbage", twoVideos + `[]`},
		{"trailing bracket", twoVideos + "]"},
		{"trailing brace", twoVideos + " }"},
		{"trailing text", twoVideos + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos, err := DecodeVideos([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, videos)
			assert.ErrorIs(t, err, errors.ErrDecoding)
			assert.NotErrorIs(t, err, errors.ErrTransport)
		})
	}
}

func TestDecodeVideos_RoundTripsEncodedList(t *testing.T) {
	in := []Video{{
		ID: "x", Title: "t", ThumbnailURL: "https://a.example/t.jpg", VideoURL: "https://a.example/v.mp4",
	}}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := DecodeVideos(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4", "BigBuckBunny.mp4"},
		{"https://example.com/media/clip.mp4?token=abc", "clip.mp4"},
		{"https://example.com/", "download"},
		{"https://example.com", "download"},
		{"https://example.com/dir/", "dir"},
		{"%zz", "download"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FileNameFromURL(tt.url))
		})
	}
	assert.Equal(t, "BigBuckBunny.mp4", Video{VideoURL: tests[0].url}.FileName())
}
