package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbutil "github.com/llehouerou/rwave/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := dbutil.Open(dbutil.Memory)
	require.NoError(t, err)

	s, err := New(context.Background(), db, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateTrack(t *testing.T, s *Store, in TrackInput) int64 {
	t.Helper()
	id, err := s.CreateTrack(context.Background(), in)
	require.NoError(t, err)
	return id
}

func TestNew_SeedsAllTracks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p, err := s.GetPlaylist(ctx, AllTracksID)
	require.NoError(t, err)
	assert.Equal(t, "All Tracks", p.Name)
	assert.True(t, p.Protected())

	// Schema creation is idempotent.
	_, err = New(ctx, s.DB(), nil)
	require.NoError(t, err)
	playlists, err := s.ListPlaylists(ctx)
	require.NoError(t, err)
	assert.Len(t, playlists, 1)
}

func TestArtists(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id1, err := s.EnsureArtist(ctx, "Pink Floyd")
	require.NoError(t, err)
	id2, err := s.EnsureArtist(ctx, "  Pink Floyd ")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	_, err = s.EnsureArtist(ctx, "abba")
	require.NoError(t, err)
	_, err = s.EnsureArtist(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyName)

	artists, err := s.ListArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "abba", artists[0].Name)
	assert.Equal(t, "Pink Floyd", artists[1].Name)

	a, err := s.GetArtist(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "Pink Floyd", a.Name)

	_, err = s.GetArtist(ctx, 999)
	assert.ErrorIs(t, err, ErrArtistNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteArtist(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	trackID := mustCreateTrack(t, s, TrackInput{Name: "Time", Path: "/m/time.flac", Artist: "Pink Floyd", Album: "DSOTM"})
	track, err := s.GetTrack(ctx, trackID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteArtist(ctx, track.ArtistID), ErrInUse)
	assert.ErrorIs(t, s.DeleteAlbum(ctx, track.AlbumID), ErrInUse)

	require.NoError(t, s.DeleteTrack(ctx, trackID))
	require.NoError(t, s.DeleteAlbum(ctx, track.AlbumID))
	require.NoError(t, s.DeleteArtist(ctx, track.ArtistID))

	assert.ErrorIs(t, s.DeleteArtist(ctx, track.ArtistID), ErrArtistNotFound)
	assert.ErrorIs(t, s.DeleteAlbum(ctx, track.AlbumID), ErrAlbumNotFound)
}

func TestAlbums(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	floyd, err := s.EnsureArtist(ctx, "Pink Floyd")
	require.NoError(t, err)
	beatles, err := s.EnsureArtist(ctx, "The Beatles")
	require.NoError(t, err)

	wall, err := s.EnsureAlbum(ctx, "The Wall", floyd)
	require.NoError(t, err)
	again, err := s.EnsureAlbum(ctx, "The Wall", floyd)
	require.NoError(t, err)
	assert.Equal(t, wall, again)

	// Same album name under another artist is a distinct album.
	other, err := s.EnsureAlbum(ctx, "The Wall", beatles)
	require.NoError(t, err)
	assert.NotEqual(t, wall, other)

	_, err = s.EnsureAlbum(ctx, "Ghost", 999)
	assert.ErrorIs(t, err, ErrArtistNotFound)

	albums, err := s.ListAlbums(ctx)
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, "Pink Floyd", albums[0].Artist)
	assert.Equal(t, "The Beatles", albums[1].Artist)

	a, err := s.GetAlbum(ctx, wall)
	require.NoError(t, err)
	assert.Equal(t, floyd, a.ArtistID)
	_, err = s.GetAlbum(ctx, 999)
	assert.ErrorIs(t, err, ErrAlbumNotFound)
}

func TestCreateTrack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := mustCreateTrack(t, s, TrackInput{
		Name:        "Money",
		Path:        "/music/floyd/money.flac",
		Artist:      "Pink Floyd",
		Album:       "The Dark Side of the Moon",
		TrackNumber: 6,
		Year:        1973,
		Duration:    382*time.Second + 400*time.Millisecond,
		Mtime:       42,
	})

	track, err := s.GetTrack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Money", track.Name)
	assert.Equal(t, "Pink Floyd", track.Artist)
	assert.Equal(t, "The Dark Side of the Moon", track.Album)
	assert.Equal(t, 6, track.TrackNumber)
	assert.Equal(t, 1973, track.Year)
	assert.Equal(t, 382*time.Second, track.Duration)
	assert.Equal(t, int64(42), track.Mtime)

	byPath, err := s.GetTrackByPath(ctx, "/music/floyd/money.flac")
	require.NoError(t, err)
	assert.Equal(t, id, byPath.ID)

	all, err := s.PlaylistTracks(ctx, AllTracksID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)

	_, err = s.CreateTrack(ctx, TrackInput{Name: "Copy", Path: "/music/floyd/money.flac"})
	assert.ErrorIs(t, err, ErrDuplicatePath)
}

func TestCreateTrack_Validation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   TrackInput
		want error
	}{
		{"empty path", TrackInput{Name: "x"}, ErrEmptyPath},
		{"empty name", TrackInput{Path: "/a.mp3"}, ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateTrack(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	id := mustCreateTrack(t, s, TrackInput{Name: "Untagged", Path: "/a.mp3"})
	track, err := s.GetTrack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, UnknownArtist, track.Artist)
	assert.Equal(t, UnknownAlbum, track.Album)
	assert.Zero(t, track.TrackNumber)
}

func TestListTracks_Ordering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateTrack(t, s, TrackInput{Name: "Something", Path: "/b/2.mp3", Artist: "The Beatles", Album: "Abbey Road", TrackNumber: 2})
	mustCreateTrack(t, s, TrackInput{Name: "Come Together", Path: "/b/1.mp3", Artist: "The Beatles", Album: "Abbey Road", TrackNumber: 1})
	mustCreateTrack(t, s, TrackInput{Name: "Dancing Queen", Path: "/a/1.mp3", Artist: "ABBA", Album: "Arrival", TrackNumber: 1})

	tracks, err := s.ListTracks(ctx)
	require.NoError(t, err)
	names := make([]string, len(tracks))
	for i, tr := range tracks {
		names[i] = tr.Name
	}
	assert.Equal(t, []string{"Dancing Queen", "Come Together", "Something"}, names)

	n, err := s.TrackCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpdateTrack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := mustCreateTrack(t, s, TrackInput{Name: "Tim", Path: "/m/1.mp3", Artist: "Floyd"})
	other := mustCreateTrack(t, s, TrackInput{Name: "Other", Path: "/m/2.mp3"})

	err := s.UpdateTrack(ctx, id, TrackInput{Name: "Time", Path: "/m/1.mp3", Artist: "Pink Floyd", Album: "DSOTM", TrackNumber: 4})
	require.NoError(t, err)

	track, err := s.GetTrack(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Time", track.Name)
	assert.Equal(t, "Pink Floyd", track.Artist)
	assert.Equal(t, 4, track.TrackNumber)

	err = s.UpdateTrack(ctx, other, TrackInput{Name: "Other", Path: "/m/1.mp3"})
	assert.ErrorIs(t, err, ErrDuplicatePath)

	err = s.UpdateTrack(ctx, 999, TrackInput{Name: "x", Path: "/x.mp3"})
	assert.ErrorIs(t, err, ErrTrackNotFound)
}

func TestDeleteTrack_RemovesMemberships(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id := mustCreateTrack(t, s, TrackInput{Name: "A", Path: "/a.mp3"})
	pid, err := s.CreatePlaylist(ctx, "Favourites")
	require.NoError(t, err)
	require.NoError(t, s.AddTrackToPlaylist(ctx, pid, id))

	require.NoError(t, s.DeleteTrack(ctx, id))
	assert.ErrorIs(t, s.DeleteTrack(ctx, id), ErrTrackNotFound)

	for _, p := range []int64{AllTracksID, pid} {
		tracks, err := s.PlaylistTracks(ctx, p)
		require.NoError(t, err)
		assert.Empty(t, tracks)
	}
}
