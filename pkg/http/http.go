// Package http holds the transport collaborator used by the fetch and download
// packages together with the mapping from HTTP status codes onto the error taxonomy.
package http

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/klutchshots/klutch/pkg/errors"
)

// DefaultUserAgent is sent when the client is created without one.
const DefaultUserAgent = "klutch/1.0"

// Client is the production Transport backed by net/http.
type Client struct {
	client    *http.Client
	userAgent string
}

var _ Transport = (*Client)(nil)

// NewClient creates a client whose requests time out after timeout (0 disables the limit).
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Dispatch sends req and reads the whole body.
func (hc *Client) Dispatch(ctx context.Context, req *http.Request) (*Response, error) {
	resp, err := hc.Stream(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, errors.Wrap(err, "failed to read response body"))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Stream sends req and returns the response with its body unread.
// The caller must close the body.
func (hc *Client) Stream(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", hc.userAgent)
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	return resp, nil
}

// transportError wraps a connection-level failure. Deadlines additionally carry ErrTimeout;
// caller cancellation is returned unchanged.
func transportError(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		return errors.Transport(fmt.Errorf("%w: %w", errors.ErrTimeout, err))
	}
	return errors.Transport(err)
}

// NewGetRequest builds a GET request for an absolute http(s) URL.
func NewGetRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Wrapf(errors.ErrInvalidURL, "%q", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	return req, nil
}

// CheckStatus validates a response: nil is ErrInvalidResponse and codes outside 2xx
// map to their taxonomy error.
func CheckStatus(resp *Response) error {
	if resp == nil {
		return errors.ErrInvalidResponse
	}
	return errors.NewStatusError(resp.StatusCode)
}
