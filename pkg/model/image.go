package model

import (
	"bytes"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/klutchshots/klutch/pkg/errors"
)

// Image is a validated image payload.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// DecodeImage validates that data holds a supported image (JPEG, PNG, GIF, WebP or BMP).
// Anything else is an ErrImageDecode error.
func DecodeImage(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrImageDecode, "empty payload")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrImageDecode, err.Error())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Wrapf(errors.ErrImageDecode, "invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return &Image{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
