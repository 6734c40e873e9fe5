// Package download drives single-flight downloads of large remote files with
// progress reporting and cancellation.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/fsutil"
	"github.com/klutchshots/klutch/pkg/model"
)

const (
	// progressStep is the minimum growth between two progress events.
	progressStep = 0.01

	copyBufferSize = 32 * 1024
)

// Options control a Coordinator.
type Options struct {
	// Dir receives completed downloads. It is created on demand.
	Dir string
	// InactivityTimeout fails a transfer that delivers no bytes for this long. Zero disables it.
	InactivityTimeout time.Duration
}

// Coordinator runs at most one download at a time. Starting a new download
// cancels the active one and waits until its transfer is released.
//
// Event channels are unbuffered: the worker advances only as fast as the
// consumer reads. A consumer that stops reading must call Cancel.
type Coordinator struct {
	source Source
	opts   Options

	// startMu serializes Start and Cancel.
	startMu sync.Mutex

	mu     sync.Mutex
	state  State
	active *attempt
}

type attempt struct {
	id     string
	url    string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(source Source, opts Options) *Coordinator {
	return &Coordinator{
		source: source,
		opts:   opts,
		state:  State{Phase: PhaseIdle},
	}
}

// Start begins downloading url and returns its event stream. The stream carries
// progress events followed by exactly one completed or failed event, then closes.
// If the download is cancelled (Cancel, a newer Start or ctx) the stream closes
// without a terminal event. The stream closes only after the attempt's transfer
// has been released.
func (c *Coordinator) Start(ctx context.Context, url string) <-chan Event {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	c.stopActive()

	runCtx, cancel := context.WithCancel(ctx)
	a := &attempt{
		id:     uuid.NewString(),
		url:    url,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	events := make(chan Event)

	c.mu.Lock()
	c.active = a
	c.state = State{Phase: PhaseInProgress, ID: a.id, URL: url}
	c.mu.Unlock()

	logger.Info("Starting download", logger.Fields{"id": a.id, "url": url})
	go c.run(runCtx, a, events)
	return events
}

// Cancel aborts the active download and returns once its transfer is released.
// It is a no-op when nothing is in progress.
func (c *Coordinator) Cancel() {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	if !c.stopActive() {
		return
	}
	c.mu.Lock()
	if c.state.Phase == PhaseInProgress {
		c.state = State{Phase: PhaseIdle}
	}
	c.mu.Unlock()
}

// Status returns a snapshot of the coordinator state.
func (c *Coordinator) Status() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// stopActive cancels the active attempt and waits for its worker to exit.
// It reports whether there was one.
func (c *Coordinator) stopActive() bool {
	c.mu.Lock()
	a := c.active
	c.mu.Unlock()
	if a == nil {
		return false
	}

	a.cancel()
	<-a.done
	logger.Debug("Download cancelled", logger.Fields{"id": a.id})
	return true
}

func (c *Coordinator) run(ctx context.Context, a *attempt, events chan<- Event) {
	defer close(a.done)
	defer func() {
		c.mu.Lock()
		if c.active == a {
			c.active = nil
		}
		c.mu.Unlock()
	}()
	defer close(events)
	defer a.cancel()

	path, err := c.transfer(ctx, a, events)

	if ctx.Err() != nil {
		c.finish(a, State{Phase: PhaseIdle})
		return
	}
	if err != nil {
		logger.Warn("Download failed", logger.Fields{"id": a.id, "url": a.url, "error": err.Error()})
		c.settle(ctx, a, events, Event{Kind: EventFailed, Err: err},
			State{Phase: PhaseFailed, ID: a.id, URL: a.url, Err: err})
		return
	}

	logger.Success("Download completed", logger.Fields{"id": a.id, "path": path})
	c.settle(ctx, a, events, Event{Kind: EventCompleted, Path: path},
		State{Phase: PhaseCompleted, ID: a.id, URL: a.url, Fraction: 1, Path: path})
}

// settle records s and delivers the matching terminal event. When cancellation
// abandons the event the coordinator returns to Idle, so state and stream agree.
func (c *Coordinator) settle(ctx context.Context, a *attempt, events chan<- Event, e Event, s State) {
	c.finish(a, s)
	if !send(ctx, events, e) {
		c.finish(a, State{Phase: PhaseIdle})
	}
}

// transfer streams the remote file into Dir. The Transfer is released exactly
// once on every path, before transfer returns.
func (c *Coordinator) transfer(ctx context.Context, a *attempt, events chan<- Event) (string, error) {
	wctx, wd := newWatchdog(ctx, c.opts.InactivityTimeout)
	defer wd.Stop()

	t, err := c.source.Open(wctx, a.url)
	if err != nil {
		return "", c.transferError(wctx, err)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := t.Close(); err != nil {
				logger.Debug("Closing transfer failed", logger.Fields{"id": a.id, "error": err.Error()})
			}
		})
	}
	// Closing on cancellation unblocks a pending Read.
	stop := context.AfterFunc(wctx, release)
	defer func() {
		stop()
		release()
	}()

	if err := fsutil.EnsureDir(c.opts.Dir); err != nil {
		return "", errors.Wrapf(errors.ErrDownloadFailed, "could not create download dir: %v", err)
	}
	tmp, err := os.CreateTemp(c.opts.Dir, ".download-*")
	if err != nil {
		return "", errors.Wrapf(errors.ErrDownloadFailed, "could not create temp file: %v", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	size := t.Size()
	var written int64
	last := 0.0
	buf := make([]byte, copyBufferSize)
	for {
		n, rerr := t.Read(buf)
		if n > 0 {
			wd.Kick()
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				return "", errors.Wrapf(errors.ErrDownloadFailed, "could not write file: %v", werr)
			}
			written += int64(n)

			if size > 0 {
				fraction := min(float64(written)/float64(size), 1)
				if fraction-last >= progressStep || (fraction == 1 && last < 1) {
					last = fraction
					c.progress(a, fraction)
					if !send(ctx, events, Event{Kind: EventProgress, Fraction: fraction}) {
						return "", ctx.Err()
					}
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", c.transferError(wctx, rerr)
		}
		if err := wctx.Err(); err != nil {
			return "", c.transferError(wctx, err)
		}
	}

	if err := tmp.Chmod(fsutil.FileModeDefault); err != nil {
		return "", errors.Wrapf(errors.ErrDownloadFailed, "could not set file mode: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrapf(errors.ErrDownloadFailed, "could not close file: %v", err)
	}
	dest := filepath.Join(c.opts.Dir, model.FileNameFromURL(a.url))
	if err := fsutil.Move(tmpPath, dest); err != nil {
		return "", errors.Wrapf(errors.ErrDownloadFailed, "could not finalize file: %v", err)
	}
	committed = true
	return dest, nil
}

// transferError maps a source or read failure. Inactivity becomes ErrTimeout.
func (c *Coordinator) transferError(wctx context.Context, err error) error {
	if expired(wctx) {
		return errors.Transport(fmt.Errorf("%w: no data for %s", errors.ErrTimeout, c.opts.InactivityTimeout))
	}
	if wctx.Err() != nil {
		return wctx.Err()
	}
	if errors.Is(err, errors.ErrTransport) || errors.Is(err, errors.ErrInvalidURL) {
		return err
	}
	if _, ok := errors.StatusCode(err); ok {
		return err
	}
	return errors.Transport(err)
}

func (c *Coordinator) progress(a *attempt, fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == a {
		c.state.Fraction = fraction
	}
}

// finish records the outcome of a if it is still the active attempt.
// The attempt stays active until its worker exits so a pending terminal
// event can still be abandoned by Cancel or Start.
func (c *Coordinator) finish(a *attempt, s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == a {
		c.state = s
	}
}

// send delivers e unless ctx is done first.
func send(ctx context.Context, events chan<- Event, e Event) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case events <- e:
		return true
	case <-ctx.Done():
		return false
	}
}
