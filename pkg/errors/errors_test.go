package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "wrap nil error",
			err:      nil,
			msg:      "additional context",
			expected: "",
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			msg:      "additional context",
			expected: "additional context: original error",
		},
		{
			name:     "wrap with empty message",
			err:      errors.New("original error"),
			msg:      "",
			expected: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(errors.New("original error"), "failed to fetch %s in %d attempts", "videos.json", 3)
	require.Error(t, err)
	assert.Equal(t, "failed to fetch videos.json in 3 attempts: original error", err.Error())
	assert.NoError(t, Wrapf(nil, "ignored %s", "x"))
}

func TestNewStatusError(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{200, nil},
		{201, nil},
		{204, nil},
		{299, nil},
		{400, ErrBadRequest},
		{401, ErrUnauthorized},
		{403, ErrForbidden},
		{404, ErrNotFound},
		{408, ErrTimeout},
		{429, ErrRateLimited},
		{500, ErrServerError},
		{503, ErrServerError},
		{599, ErrServerError},
		{100, ErrUnknownStatus},
		{302, ErrUnknownStatus},
		{304, ErrUnknownStatus},
		{418, ErrUnknownStatus},
		{600, ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			err := NewStatusError(tt.code)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			code, ok := StatusCode(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestStatusError_UnknownCarriesCode(t *testing.T) {
	err := NewStatusError(418)
	assert.Equal(t, "unknown status: 418", err.Error())
	assert.Equal(t, "not found (HTTP 404)", NewStatusError(404).Error())
}

func TestDecodingAndTransport(t *testing.T) {
	cause := errors.New("unexpected EOF")

	dec := Decoding(cause)
	assert.ErrorIs(t, dec, ErrDecoding)
	assert.ErrorIs(t, dec, cause)
	assert.NotErrorIs(t, dec, ErrTransport)

	tr := Transport(context.DeadlineExceeded)
	assert.ErrorIs(t, tr, ErrTransport)
	assert.ErrorIs(t, tr, context.DeadlineExceeded)

	assert.NoError(t, Decoding(nil))
	assert.NoError(t, Transport(nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryNone},
		{"not found", NewStatusError(404), CategoryNotFound},
		{"decoding", Decoding(errors.New("bad json")), CategoryData},
		{"image", Wrap(ErrImageDecode, "thumbnail"), CategoryData},
		{"transport", Transport(errors.New("connection refused")), CategoryConnectivity},
		{"timeout", NewStatusError(408), CategoryConnectivity},
		{"server", NewStatusError(502), CategoryServer},
		{"rate limited", NewStatusError(429), CategoryServer},
		{"invalid response", ErrInvalidResponse, CategoryServer},
		{"forbidden", NewStatusError(403), CategoryClient},
		{"unknown status", NewStatusError(302), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
