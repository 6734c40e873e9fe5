package download

import (
	"context"
	"os"
	"time"
)

// watchdog cancels its context with os.ErrDeadlineExceeded when Kick is not
// called within timeout. A zero timeout disables it.
type watchdog struct {
	cancel  context.CancelCauseFunc
	timer   *time.Timer
	timeout time.Duration
}

func newWatchdog(parent context.Context, timeout time.Duration) (context.Context, *watchdog) {
	ctx, cancel := context.WithCancelCause(parent)
	wd := &watchdog{cancel: cancel, timeout: timeout}
	if timeout > 0 {
		wd.timer = time.AfterFunc(timeout, func() {
			cancel(os.ErrDeadlineExceeded)
		})
	}
	return ctx, wd
}

// Kick restarts the inactivity window.
func (wd *watchdog) Kick() {
	if wd.timer != nil {
		wd.timer.Reset(wd.timeout)
	}
}

// Stop disarms the timer and releases the context.
func (wd *watchdog) Stop() {
	if wd.timer != nil {
		wd.timer.Stop()
	}
	wd.cancel(nil)
}

// expired reports whether ctx was cancelled by a watchdog.
func expired(ctx context.Context) bool {
	return context.Cause(ctx) == os.ErrDeadlineExceeded
}
