package repository

import (
	"fmt"

	"github.com/klutchshots/klutch/pkg/errors"
)

// Common repository errors.
var (
	// ErrVideoNotFound is returned when no video in the current list matches an ID.
	ErrVideoNotFound = fmt.Errorf("video not found")

	// ErrVideoIDEmpty is returned when a lookup is made with an empty ID.
	ErrVideoIDEmpty = fmt.Errorf("video id cannot be empty")
)

// Wrap wraps an error with additional context specific to the repository package.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, "repository: "+msg)
}
