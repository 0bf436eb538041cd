package catalog

import (
	"context"
	"testing"

	"github.com/musicverse/musicverse-backend-go/internal/domain/catalog"
	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistCreate_DefaultsToPublic(t *testing.T) {
	f := setup()

	pl, err := f.playlists.Create(context.Background(), fanID, catalog.CreatePlaylistRequest{Title: "Gym"})
	require.NoError(t, err)
	assert.True(t, pl.IsPublic)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, string(notification.TypeNewPlaylist), f.events.events[0].name)
	assert.Equal(t, notification.NewPlaylistPayload{PlaylistID: pl.ID, UserID: fanID, Title: "Gym"}, f.events.events[0].payload)
}

func TestPlaylistPrivate(t *testing.T) {
	f := setup()
	ctx := context.Background()

	private := false
	pl, err := f.playlists.Create(ctx, fanID, catalog.CreatePlaylistRequest{Title: "Secret", IsPublic: &private})
	require.NoError(t, err)
	assert.False(t, pl.IsPublic)
	assert.Empty(t, f.events.events)

	_, err = f.playlists.GetByID(ctx, fanID, pl.ID)
	assert.NoError(t, err)

	_, err = f.playlists.GetByID(ctx, otherID, pl.ID)
	assert.ErrorIs(t, err, catalog.ErrPlaylistNotFound)

	_, err = f.playlists.ToggleSave(ctx, otherID, pl.ID)
	assert.ErrorIs(t, err, catalog.ErrPlaylistNotFound)
	assert.Empty(t, f.events.events)
}

func TestPlaylistToggleSave(t *testing.T) {
	f := setup()
	ctx := context.Background()

	pl, err := f.playlists.Create(ctx, fanID, catalog.CreatePlaylistRequest{Title: "Gym"})
	require.NoError(t, err)
	f.events.events = nil

	saved, err := f.playlists.ToggleSave(ctx, otherID, pl.ID)
	require.NoError(t, err)
	assert.True(t, saved.Saved)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, notification.SavePlaylistPayload{PlaylistID: pl.ID, UserID: otherID}, f.events.events[0].payload)

	saved, err = f.playlists.ToggleSave(ctx, otherID, pl.ID)
	require.NoError(t, err)
	assert.False(t, saved.Saved)
	assert.Len(t, f.events.events, 1)
}
