// Package repository holds the most recently fetched video listing.
package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/model"
)

// VideoRepository keeps the last successful listing in memory.
type VideoRepository struct {
	lister Lister

	mu     sync.RWMutex
	videos []model.Video
}

// NewVideoRepository creates an empty repository backed by lister.
func NewVideoRepository(lister Lister) *VideoRepository {
	return &VideoRepository{lister: lister}
}

// FetchAll replaces the stored list with a fresh listing and returns it.
// On error the stored list is cleared.
func (r *VideoRepository) FetchAll(ctx context.Context) ([]model.Video, error) {
	videos, err := r.lister.FetchVideos(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.videos = nil
		logger.Debug("Listing fetch failed", logger.Fields{"error": err.Error()})
		return nil, Wrap(err, "fetch listing")
	}
	r.videos = videos
	logger.Debug("Listing fetched", logger.Fields{"count": len(videos)})
	return slices.Clone(videos), nil
}

// Videos returns a copy of the stored list.
func (r *VideoRepository) Videos() []model.Video {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.videos)
}

// Find returns the stored video with the given id.
func (r *VideoRepository) Find(id string) (model.Video, error) {
	if id == "" {
		return model.Video{}, ErrVideoIDEmpty
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.videos, func(v model.Video) bool { return v.ID == id })
	if i < 0 {
		return model.Video{}, ErrVideoNotFound
	}
	return r.videos[i], nil
}
