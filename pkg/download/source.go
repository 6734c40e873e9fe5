package download

import (
	"context"
	"io"
	"net/http"

	"github.com/klutchshots/klutch/pkg/errors"
	khttp "github.com/klutchshots/klutch/pkg/http"
)

// Streamer sends a request and returns the response with an unread body.
type Streamer interface {
	Stream(ctx context.Context, req *http.Request) (*http.Response, error)
}

// HTTPSource opens transfers with a streaming HTTP GET.
type HTTPSource struct {
	client Streamer
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates a source backed by client.
func NewHTTPSource(client Streamer) *HTTPSource {
	return &HTTPSource{client: client}
}

// Open issues the GET and maps non-2xx responses onto the error taxonomy.
func (s *HTTPSource) Open(ctx context.Context, url string) (Transfer, error) {
	req, err := khttp.NewGetRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Stream(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := errors.NewStatusError(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, err
	}
	return &httpTransfer{body: resp.Body, size: resp.ContentLength}, nil
}

type httpTransfer struct {
	body io.ReadCloser
	size int64
}

func (t *httpTransfer) Read(p []byte) (int, error) { return t.body.Read(p) }
func (t *httpTransfer) Size() int64                { return t.size }
func (t *httpTransfer) Close() error               { return t.body.Close() }
