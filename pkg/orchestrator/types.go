//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . ImageFetcher,VideoSource,Downloader

package orchestrator

import (
	"context"

	"github.com/klutchshots/klutch/pkg/download"
	"github.com/klutchshots/klutch/pkg/model"
)

// ImageFetcher is the subset of the fetch client used for thumbnails.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string, useCache bool) (*model.Image, error)
}

// VideoSource resolves video IDs against the listing.
type VideoSource interface {
	FetchAll(ctx context.Context) ([]model.Video, error)
	Find(id string) (model.Video, error)
}

// Downloader is the subset of the download coordinator used by the orchestrator.
// The stream returned by Start closes only after the attempt's transfer is released.
type Downloader interface {
	Start(ctx context.Context, url string) <-chan download.Event
}

// Orchestrator ties the listing, image fetching and the download coordinator together.
type Orchestrator struct {
	Images ImageFetcher
	Videos VideoSource
	DL     Downloader
	Hooks  Hooks // Hooks for progress and event notifications
}

// Event phases.
const (
	PhaseResolving   = "resolving"
	PhasePrefetching = "prefetching"
	PhaseDownloading = "downloading"
	PhaseDone        = "done"
	PhaseError       = "error"
)

// Event represents a simple progress notification.
type Event struct {
	Phase    string  // resolving|prefetching|downloading|done|error
	ID       string  // video ID, or the download target
	Msg      string
	Fraction float64 // downloading: 0..1
}

// Hooks carries callbacks for progress events. OnEvent is never called concurrently.
type Hooks struct {
	OnEvent func(Event)
}

// Options control orchestrator execution.
type Options struct {
	Concurrency int
}

// PrefetchResult summarizes a thumbnail prefetch.
type PrefetchResult struct {
	Total   int
	Fetched int
	Failed  map[string]error // keyed by video ID
}
