package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/model"
	"github.com/klutchshots/klutch/pkg/repository"
	"github.com/klutchshots/klutch/pkg/repository/mocks"
)

var listing = []model.Video{
	{ID: "1", Title: "Big Buck Bunny", VideoURL: "https://cdn.example.com/BigBuckBunny.mp4"},
	{ID: "2", Title: "Elephant Dream", VideoURL: "https://cdn.example.com/ElephantsDream.mp4"},
}

func TestFetchAll_StoresListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockLister(ctrl)
	lister.EXPECT().FetchVideos(gomock.Any()).Return(listing, nil)

	repo := repository.NewVideoRepository(lister)
	videos, err := repo.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, listing, videos)
	assert.Equal(t, listing, repo.Videos())

	v, err := repo.Find("2")
	require.NoError(t, err)
	assert.Equal(t, "Elephant Dream", v.Title)
}

func TestFetchAll_ErrorClearsListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockLister(ctrl)
	gomock.InOrder(
		lister.EXPECT().FetchVideos(gomock.Any()).Return(listing, nil),
		lister.EXPECT().FetchVideos(gomock.Any()).Return(nil, errors.NewStatusError(500)),
	)

	repo := repository.NewVideoRepository(lister)
	_, err := repo.FetchAll(context.Background())
	require.NoError(t, err)

	videos, err := repo.FetchAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrServerError)
	assert.Nil(t, videos)
	assert.Empty(t, repo.Videos())

	_, err = repo.Find("1")
	assert.ErrorIs(t, err, repository.ErrVideoNotFound)
}

func TestVideos_ReturnsCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockLister(ctrl)
	lister.EXPECT().FetchVideos(gomock.Any()).Return(append([]model.Video(nil), listing...), nil)

	repo := repository.NewVideoRepository(lister)
	_, err := repo.FetchAll(context.Background())
	require.NoError(t, err)

	snapshot := repo.Videos()
	snapshot[0].Title = "changed"
	assert.Equal(t, "Big Buck Bunny", repo.Videos()[0].Title)
}

func TestFind(t *testing.T) {
	repo := repository.NewVideoRepository(nil)

	_, err := repo.Find("")
	assert.ErrorIs(t, err, repository.ErrVideoIDEmpty)

	_, err = repo.Find("1")
	assert.ErrorIs(t, err, repository.ErrVideoNotFound)
}
