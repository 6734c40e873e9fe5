// Package fetch retrieves the video listing and thumbnails, translating wire
// outcomes into typed results or taxonomy errors and consulting the asset cache
// before touching the network for images.
package fetch

import (
	"context"
	"net/url"
	"strings"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/cache"
	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/http"
	"github.com/klutchshots/klutch/pkg/model"
)

// Client fetches listings and images through an injected Transport.
type Client struct {
	transport   http.Transport
	cache       cache.Store
	baseURL     string
	listingPath string
}

// Options configure a Client.
type Options struct {
	// BaseURL resolves relative paths passed to FetchJSON.
	BaseURL string
	// ListingPath is the document fetched by FetchVideos.
	ListingPath string
}

// NewClient creates a fetch client. store may be nil to disable caching.
func NewClient(transport http.Transport, store cache.Store, opts Options) *Client {
	return &Client{
		transport:   transport,
		cache:       store,
		baseURL:     opts.BaseURL,
		listingPath: opts.ListingPath,
	}
}

// FetchJSON GETs path (absolute, or relative to the base URL) and returns the
// body of a 2xx response unmodified.
func (c *Client) FetchJSON(ctx context.Context, path string) ([]byte, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, target)
}

// FetchVideos fetches and strictly decodes the listing document.
func (c *Client) FetchVideos(ctx context.Context) ([]model.Video, error) {
	body, err := c.FetchJSON(ctx, c.listingPath)
	if err != nil {
		return nil, err
	}
	videos, err := model.DecodeVideos(body)
	if err != nil {
		return nil, err
	}
	logger.Debug("Fetched video listing", logger.Fields{"count": len(videos)})
	return videos, nil
}

// FetchImage returns the image at rawURL. With useCache a cache hit is returned
// without network I/O. Only successfully fetched, decodable images are cached.
// Undecodable bytes yield an ErrImageDecode error.
func (c *Client) FetchImage(ctx context.Context, rawURL string, useCache bool) (*model.Image, error) {
	if useCache && c.cache != nil {
		if data, ok := c.cache.Get(rawURL); ok {
			img, err := model.DecodeImage(data)
			if err == nil {
				return img, nil
			}
			logger.Warn("Discarding undecodable cache entry", logger.Fields{"url": rawURL, "key": cache.Key(rawURL), "error": err.Error()})
		}
	}

	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	img, err := model.DecodeImage(body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Put(rawURL, body)
	}
	return img, nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewGetRequest(ctx, target)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Dispatch(ctx, req)
	if err != nil {
		return nil, asTransportError(err)
	}
	if err := http.CheckStatus(resp); err != nil {
		logger.Debug("Request failed", logger.Fields{"url": target, "error": err.Error()})
		return nil, err
	}
	return resp.Body, nil
}

// asTransportError keeps taxonomy errors and context errors as they are and wraps anything else.
func asTransportError(err error) error {
	if errors.Is(err, errors.ErrTransport) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var se *errors.StatusError
	if errors.As(err, &se) {
		return err
	}
	return errors.Transport(err)
}

func (c *Client) resolve(path string) (string, error) {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path, nil
	}
	if c.baseURL == "" {
		return "", errors.Wrapf(errors.ErrInvalidURL, "relative path %q without base URL", path)
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/"), nil
}
