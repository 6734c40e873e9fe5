//go:generate mockgen -destination=./mocks/repository.go -package=mocks . Lister

package repository

import (
	"context"

	"github.com/klutchshots/klutch/pkg/model"
)

// Lister fetches the current listing. *fetch.Client satisfies it.
type Lister interface {
	FetchVideos(ctx context.Context) ([]model.Video, error)
}
