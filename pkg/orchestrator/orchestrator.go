package orchestrator

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/download"
	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/model"
)

const defaultConcurrency = 4

// ErrDownloadCancelled is returned when a download stream ends without an outcome.
var ErrDownloadCancelled = fmt.Errorf("download cancelled")

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// PrefetchThumbnails loads every thumbnail through the image cache with at most
// opts.Concurrency requests in flight. Per-item failures are recorded in the
// result. The returned error is non-nil only when ctx ends the run early.
func (o *Orchestrator) PrefetchThumbnails(ctx context.Context, videos []model.Video, opts Options) (*PrefetchResult, error) {
	if o.Images == nil {
		return nil, fmt.Errorf("image fetcher is not configured")
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	res := &PrefetchResult{Total: len(videos), Failed: map[string]error{}}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(limit)

	for _, v := range videos {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			_, err := o.Images.FetchImage(ctx, v.ThumbnailURL, true)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed[v.ID] = err
				logger.Debug("Thumbnail prefetch failed", logger.Fields{"id": v.ID, "url": v.ThumbnailURL, "error": err.Error()})
				emit(o.Hooks, Event{Phase: PhaseError, ID: v.ID, Msg: err.Error()})
				return nil
			}
			res.Fetched++
			emit(o.Hooks, Event{Phase: PhasePrefetching, ID: v.ID, Msg: v.Title})
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	emit(o.Hooks, Event{Phase: PhaseDone, Msg: fmt.Sprintf("%d/%d thumbnails", res.Fetched, res.Total)})
	return res, nil
}

// Download resolves target (a media URL or a video ID) and drives a download to
// its outcome. It returns the local path on completion. When ctx is cancelled the
// download is aborted and ctx's error is returned.
func (o *Orchestrator) Download(ctx context.Context, target string) (string, error) {
	if o.DL == nil {
		return "", fmt.Errorf("downloader is not configured")
	}

	src, err := o.resolveTarget(ctx, target)
	if err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: target, Msg: err.Error()})
		return "", err
	}

	emit(o.Hooks, Event{Phase: PhaseDownloading, ID: target, Msg: src})
	for e := range o.DL.Start(ctx, src) {
		switch e.Kind {
		case download.EventProgress:
			emit(o.Hooks, Event{Phase: PhaseDownloading, ID: target, Fraction: e.Fraction})
		case download.EventCompleted:
			emit(o.Hooks, Event{Phase: PhaseDone, ID: target, Msg: e.Path, Fraction: 1})
			return e.Path, nil
		case download.EventFailed:
			emit(o.Hooks, Event{Phase: PhaseError, ID: target, Msg: e.Err.Error()})
			return "", e.Err
		}
	}

	// The stream closed without an outcome: ctx ended or a newer download
	// replaced this one. Its transfer is already released.
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrDownloadCancelled
}

// resolveTarget returns target itself when it is an absolute URL, otherwise the
// media URL of the video with that ID. The listing is refreshed on a miss.
func (o *Orchestrator) resolveTarget(ctx context.Context, target string) (string, error) {
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target, nil
	}
	if o.Videos == nil {
		return "", errors.Wrapf(errors.ErrInvalidURL, "%q", target)
	}

	emit(o.Hooks, Event{Phase: PhaseResolving, ID: target})
	v, err := o.Videos.Find(target)
	if err == nil {
		return v.VideoURL, nil
	}
	if _, err := o.Videos.FetchAll(ctx); err != nil {
		return "", err
	}
	v, err = o.Videos.Find(target)
	if err != nil {
		return "", err
	}
	return v.VideoURL, nil
}
