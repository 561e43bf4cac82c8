package service_test

import (
	"context"
	"testing"

	"github.com/anavarro/melodia/internal/domain"
	"github.com/anavarro/melodia/internal/repository/postgres"
	"github.com/anavarro/melodia/internal/service"
	"github.com/anavarro/melodia/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistService_OwnershipScoping(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	playlistService := service.NewPlaylistService(repos.Playlist)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	playlist := testutil.NewPlaylistBuilder(owner).
		WithSongs("/musica/a.mp3").
		Build(t, testDB.DB)

	// Each operation must fail the same way for a foreign playlist as for a
	// nonexistent one.
	t.Run("stranger add song", func(t *testing.T) {
		err := playlistService.AddSong(ctx, stranger.ID, playlist.ID, "/musica/b.mp3")
		assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	})

	t.Run("stranger list songs", func(t *testing.T) {
		_, err := playlistService.ListSongs(ctx, stranger.ID, playlist.ID)
		assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	})

	t.Run("stranger remove song", func(t *testing.T) {
		err := playlistService.RemoveSong(ctx, stranger.ID, playlist.ID, "/musica/a.mp3")
		assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	})

	t.Run("stranger delete", func(t *testing.T) {
		err := playlistService.Delete(ctx, stranger.ID, playlist.ID)
		assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	})

	t.Run("owner against missing id", func(t *testing.T) {
		err := playlistService.AddSong(ctx, owner.ID, uuid.New(), "/musica/b.mp3")
		assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
	})

	t.Run("owner operations untouched by the above", func(t *testing.T) {
		songs, err := playlistService.ListSongs(ctx, owner.ID, playlist.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"/musica/a.mp3"}, songs)
	})
}

func TestPlaylistService_CreateAndList(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	playlistService := service.NewPlaylistService(repos.Playlist)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	created, err := playlistService.Create(ctx, owner.ID, "Road Trip")
	require.NoError(t, err)
	assert.Equal(t, "Road Trip", created.Name)
	assert.Equal(t, owner.ID, created.OwnerID)

	require.NoError(t, playlistService.AddSong(ctx, owner.ID, created.ID, "/musica/a.mp3"))
	require.NoError(t, playlistService.AddSong(ctx, owner.ID, created.ID, "/musica/a.mp3"))

	rows, err := playlistService.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].SongCount)
}
