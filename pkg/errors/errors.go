// Package errors defines the error taxonomy shared by the content-access layer
// and small helpers for wrapping errors with context.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Response and transport errors. Every failed request surfaces exactly one of these.
var (
	ErrInvalidResponse = fmt.Errorf("invalid response")
	ErrBadRequest      = fmt.Errorf("bad request")
	ErrUnauthorized    = fmt.Errorf("unauthorized")
	ErrForbidden       = fmt.Errorf("forbidden")
	ErrNotFound        = fmt.Errorf("not found")
	ErrTimeout         = fmt.Errorf("request timed out")
	ErrRateLimited     = fmt.Errorf("rate limited")
	ErrServerError     = fmt.Errorf("server error")
	ErrUnknownStatus   = fmt.Errorf("unknown status")

	// ErrTransport wraps failures of the underlying connection (refused, reset, DNS).
	ErrTransport = fmt.Errorf("transport error")
)

// Payload errors.
var (
	// ErrDecoding is returned when a successful response carries a body that cannot be decoded.
	ErrDecoding = fmt.Errorf("decoding error")

	// ErrImageDecode is returned when fetched bytes are not a supported image.
	ErrImageDecode = fmt.Errorf("image decode failure")
)

// Download errors.
var (
	ErrDownloadFailed = fmt.Errorf("download failed")
	ErrInvalidURL     = fmt.Errorf("invalid url")
	ErrInvalidPath    = fmt.Errorf("invalid path")
)

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to rename temporary config file")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists (use --force to overwrite)")
	ErrConfigMarshal     = fmt.Errorf("failed to marshal config to YAML")
	ErrUnknownConfigKey  = fmt.Errorf("unknown configuration key")

	ErrHTTPTimeoutNegative   = fmt.Errorf("http_timeout cannot be negative")
	ErrInactivityNegative    = fmt.Errorf("inactivity_timeout cannot be negative")
	ErrMaxConcurrentInvalid  = fmt.Errorf("max_concurrent must be at least 1")
	ErrBaseURLInvalid        = fmt.Errorf("base_url must be an absolute http(s) URL")
	ErrInvalidOutputFormat   = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel       = fmt.Errorf("invalid log level")
	ErrCacheDirectory        = fmt.Errorf("cache directory cannot be empty")
	ErrCacheDirectoryMissing = fmt.Errorf("cache directory does not exist")
)

// StatusError records the HTTP status code behind a mapped response error.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err == ErrUnknownStatus {
		return fmt.Sprintf("%s: %d", e.Err, e.Code)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Err, e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

// NewStatusError maps an HTTP status code onto the taxonomy.
// It returns nil for 2xx codes.
func NewStatusError(code int) error {
	var kind error
	switch {
	case code >= http.StatusOK && code <= 299:
		return nil
	case code == http.StatusBadRequest:
		kind = ErrBadRequest
	case code == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case code == http.StatusForbidden:
		kind = ErrForbidden
	case code == http.StatusNotFound:
		kind = ErrNotFound
	case code == http.StatusRequestTimeout:
		kind = ErrTimeout
	case code == http.StatusTooManyRequests:
		kind = ErrRateLimited
	case code >= http.StatusInternalServerError && code <= 599:
		kind = ErrServerError
	default:
		kind = ErrUnknownStatus
	}
	return &StatusError{Code: code, Err: kind}
}

// StatusCode returns the HTTP status code carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if stderrors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

// Decoding wraps a payload decoding failure.
func Decoding(cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDecoding, cause)
}

// Transport wraps a connection-level failure.
func Transport(cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransport, cause)
}

// Category groups taxonomy errors by what a user can do about them.
type Category string

// Error categories.
const (
	CategoryNone         Category = ""
	CategoryConnectivity Category = "connectivity"
	CategoryServer       Category = "server"
	CategoryData         Category = "data"
	CategoryNotFound     Category = "not_found"
	CategoryClient       Category = "client"
	CategoryUnknown      Category = "unknown"
)

// Classify returns the category of err.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case Is(err, ErrNotFound):
		return CategoryNotFound
	case Is(err, ErrDecoding), Is(err, ErrImageDecode):
		return CategoryData
	case Is(err, ErrTransport), Is(err, ErrTimeout):
		return CategoryConnectivity
	case Is(err, ErrServerError), Is(err, ErrRateLimited), Is(err, ErrInvalidResponse):
		return CategoryServer
	case Is(err, ErrBadRequest), Is(err, ErrUnauthorized), Is(err, ErrForbidden):
		return CategoryClient
	default:
		return CategoryUnknown
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
