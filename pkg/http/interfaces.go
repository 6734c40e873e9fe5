//go:generate mockgen -destination=mocks/http.go -package=mocks . Transport
package http

import (
	"context"
	"net/http"
)

// Transport performs a single request. A nil *Response with a nil error is
// treated as an invalid response by callers.
type Transport interface {
	Dispatch(ctx context.Context, req *http.Request) (*Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *http.Request) (*Response, error)

// Dispatch calls f(ctx, req).
func (f TransportFunc) Dispatch(ctx context.Context, req *http.Request) (*Response, error) {
	return f(ctx, req)
}
