package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylists_CRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.CreatePlaylist(ctx, "Road trip")
	require.NoError(t, err)
	assert.NotEqual(t, AllTracksID, id)

	_, err = s.CreatePlaylist(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyName)

	require.NoError(t, s.RenamePlaylist(ctx, id, "Summer"))
	p, err := s.GetPlaylist(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Summer", p.Name)
	assert.False(t, p.Protected())

	assert.ErrorIs(t, s.RenamePlaylist(ctx, 999, "x"), ErrPlaylistNotFound)
	assert.ErrorIs(t, s.RenamePlaylist(ctx, AllTracksID, "x"), ErrProtectedPlaylist)
	assert.ErrorIs(t, s.DeletePlaylist(ctx, AllTracksID), ErrProtectedPlaylist)

	require.NoError(t, s.DeletePlaylist(ctx, id))
	assert.ErrorIs(t, s.DeletePlaylist(ctx, id), ErrPlaylistNotFound)
	_, err = s.GetPlaylist(ctx, id)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestPlaylistMembership(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := mustCreateTrack(t, s, TrackInput{Name: "A", Path: "/a.mp3"})
	b := mustCreateTrack(t, s, TrackInput{Name: "B", Path: "/b.mp3"})
	c := mustCreateTrack(t, s, TrackInput{Name: "C", Path: "/c.mp3"})
	pid, err := s.CreatePlaylist(ctx, "Mix")
	require.NoError(t, err)

	for _, id := range []int64{c, a, b} {
		require.NoError(t, s.AddTrackToPlaylist(ctx, pid, id))
	}

	tests := []struct {
		name       string
		playlistID int64
		trackID    int64
		want       error
	}{
		{"duplicate", pid, a, ErrAlreadyInPlaylist},
		{"unknown playlist", 999, a, ErrPlaylistNotFound},
		{"unknown track", pid, 999, ErrTrackNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.AddTrackToPlaylist(ctx, tt.playlistID, tt.trackID), tt.want)
		})
	}

	tracks, err := s.PlaylistTracks(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, []int64{c, a, b}, trackIDs(tracks))

	require.NoError(t, s.RemoveTrackFromPlaylist(ctx, pid, a))
	assert.ErrorIs(t, s.RemoveTrackFromPlaylist(ctx, pid, a), ErrNotInPlaylist)
	assert.ErrorIs(t, s.RemoveTrackFromPlaylist(ctx, 999, a), ErrPlaylistNotFound)
	assert.ErrorIs(t, s.RemoveTrackFromPlaylist(ctx, pid, 999), ErrTrackNotFound)

	// Appending after a removal keeps positions dense.
	require.NoError(t, s.AddTrackToPlaylist(ctx, pid, a))
	tracks, err = s.PlaylistTracks(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, []int64{c, b, a}, trackIDs(tracks))

	p, err := s.GetPlaylist(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 3, p.TrackCount)

	_, err = s.PlaylistTracks(ctx, 999)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func trackIDs(tracks []Track) []int64 {
	ids := make([]int64, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}
