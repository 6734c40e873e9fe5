package http

import (
	"context"
	"net/http"
	"time"

	"github.com/klutchshots/klutch/pkg/errors"
)

// Stub returns a Transport that answers every request with status and body
// after delay. A context cancelled during the delay aborts the request.
func Stub(status int, body []byte, delay time.Duration) Transport {
	return TransportFunc(func(ctx context.Context, _ *http.Request) (*Response, error) {
		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return nil, errors.Transport(ctx.Err())
			case <-timer.C:
			}
		}
		return &Response{
			StatusCode: status,
			Header:     http.Header{},
			Body:       append([]byte(nil), body...),
		}, nil
	})
}

// Routes returns a Transport that dispatches on the full request URL.
// Unknown URLs answer 404.
func Routes(routes map[string]Transport) Transport {
	return TransportFunc(func(ctx context.Context, req *http.Request) (*Response, error) {
		if t, ok := routes[req.URL.String()]; ok {
			return t.Dispatch(ctx, req)
		}
		return &Response{StatusCode: http.StatusNotFound, Header: http.Header{}}, nil
	})
}
