// Package model provides the media item types served by the listing endpoint
// and the decoders that turn raw payloads into them.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/klutchshots/klutch/pkg/errors"
)

// Video is one media item of the listing.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
	UploadTime   string `json:"uploadTime"`
	Views        string `json:"views"`
	Author       string `json:"author"`
	VideoURL     string `json:"videoUrl"`
	Description  string `json:"description"`
	Subscriber   string `json:"subscriber"`
	IsLive       bool   `json:"isLive"`
}

// FileName returns the last path segment of the video URL.
func (v Video) FileName() string {
	return FileNameFromURL(v.VideoURL)
}

// FileNameFromURL returns the last path segment of rawURL, or "download" when there is none.
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" || strings.ContainsAny(name, `/\`) {
		return "download"
	}
	return name
}

// rawVideo detects absent and null fields.
type rawVideo struct {
	ID           *string `json:"id"`
	Title        *string `json:"title"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	Duration     *string `json:"duration"`
	UploadTime   *string `json:"uploadTime"`
	Views        *string `json:"views"`
	Author       *string `json:"author"`
	VideoURL     *string `json:"videoUrl"`
	Description  *string `json:"description"`
	Subscriber   *string `json:"subscriber"`
	IsLive       *bool   `json:"isLive"`
}

// DecodeVideos decodes a JSON array of media items. Every field is required and
// the two URL fields must be absolute. Any violation is an ErrDecoding error.
func DecodeVideos(data []byte) ([]Video, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var raws []rawVideo
	if err := dec.Decode(&raws); err != nil {
		return nil, errors.Decoding(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Decoding(fmt.Errorf("unexpected data after listing"))
	}
	if raws == nil {
		return nil, errors.Decoding(fmt.Errorf("listing is not an array"))
	}

	videos := make([]Video, 0, len(raws))
	for i, raw := range raws {
		v, err := raw.toVideo()
		if err != nil {
			return nil, errors.Decoding(fmt.Errorf("item %d: %w", i, err))
		}
		videos = append(videos, v)
	}
	return videos, nil
}

func (r rawVideo) toVideo() (Video, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"id", r.ID},
		{"title", r.Title},
		{"thumbnailUrl", r.ThumbnailURL},
		{"duration", r.Duration},
		{"uploadTime", r.UploadTime},
		{"views", r.Views},
		{"author", r.Author},
		{"videoUrl", r.VideoURL},
		{"description", r.Description},
		{"subscriber", r.Subscriber},
	}
	for _, f := range fields {
		if f.value == nil {
			return Video{}, fmt.Errorf("missing field %q", f.name)
		}
	}
	if r.IsLive == nil {
		return Video{}, fmt.Errorf("missing field %q", "isLive")
	}

	for name, raw := range map[string]string{"thumbnailUrl": *r.ThumbnailURL, "videoUrl": *r.VideoURL} {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return Video{}, fmt.Errorf("field %q is not an absolute URL: %q", name, raw)
		}
	}

	return Video{
		ID:           *r.ID,
		Title:        *r.Title,
		ThumbnailURL: *r.ThumbnailURL,
		Duration:     *r.Duration,
		UploadTime:   *r.UploadTime,
		Views:        *r.Views,
		Author:       *r.Author,
		VideoURL:     *r.VideoURL,
		Description:  *r.Description,
		Subscriber:   *r.Subscriber,
		IsLive:       *r.IsLive,
	}, nil
}
