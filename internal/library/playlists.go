package library

import (
	"context"
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/rwave/internal/db"
)

type Playlist struct {
	ID         int64
	Name       string
	TrackCount int
}

// Protected reports whether the playlist is the seeded All Tracks list.
func (p Playlist) Protected() bool { return p.ID == AllTracksID }

func (s *Store) CreatePlaylist(ctx context.Context, name string) (int64, error) {
	name, err := cleanName(name)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO playlists (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) RenamePlaylist(ctx context.Context, id int64, name string) error {
	if id == AllTracksID {
		return ErrProtectedPlaylist
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE playlists SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrPlaylistNotFound)
}

// DeletePlaylist removes the playlist and its memberships. The tracks
// themselves stay in the library.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	if id == AllTracksID {
		return ErrProtectedPlaylist
	}
	return dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireAffected(res, ErrPlaylistNotFound)
	})
}

const playlistQuery = `
	SELECT p.id, p.name, COUNT(pt.track_id)
	FROM playlists p
	LEFT JOIN playlist_tracks pt ON pt.playlist_id = p.id`

func (s *Store) GetPlaylist(ctx context.Context, id int64) (*Playlist, error) {
	var p Playlist
	err := s.db.QueryRowContext(ctx, playlistQuery+` WHERE p.id = ? GROUP BY p.id`, id).
		Scan(&p.ID, &p.Name, &p.TrackCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlaylists returns all playlists, All Tracks first.
func (s *Store) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, playlistQuery+` GROUP BY p.id ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.TrackCount); err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

func checkMembership(ctx context.Context, q querier, playlistID, trackID int64) (bool, error) {
	ok, err := exists(ctx, q, `SELECT COUNT(*) FROM playlists WHERE id = ?`, playlistID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrPlaylistNotFound
	}
	ok, err = exists(ctx, q, `SELECT COUNT(*) FROM tracks WHERE id = ?`, trackID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrTrackNotFound
	}
	return exists(ctx, q, `
		SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?
	`, playlistID, trackID)
}

// AddTrackToPlaylist appends the track at the end of the playlist.
func (s *Store) AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error {
	return dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		member, err := checkMembership(ctx, tx, playlistID, trackID)
		if err != nil {
			return err
		}
		if member {
			return ErrAlreadyInPlaylist
		}
		return appendToPlaylist(ctx, tx, playlistID, trackID)
	})
}

func appendToPlaylist(ctx context.Context, q querier, playlistID, trackID int64) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO playlist_tracks (playlist_id, track_id, position)
		SELECT ?, ?, COALESCE(MAX(position), -1) + 1 FROM playlist_tracks WHERE playlist_id = ?
	`, playlistID, trackID, playlistID)
	return err
}

// RemoveTrackFromPlaylist removes the membership and closes the gap in
// positions.
func (s *Store) RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID int64) error {
	return dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		member, err := checkMembership(ctx, tx, playlistID, trackID)
		if err != nil {
			return err
		}
		if !member {
			return ErrNotInPlaylist
		}

		var pos int
		err = tx.QueryRowContext(ctx, `
			SELECT position FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?
		`, playlistID, trackID).Scan(&pos)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?
		`, playlistID, trackID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE playlist_tracks SET position = position - 1
			WHERE playlist_id = ? AND position > ?
		`, playlistID, pos)
		return err
	})
}

// PlaylistTracks returns the playlist's tracks in playlist order.
func (s *Store) PlaylistTracks(ctx context.Context, playlistID int64) ([]Track, error) {
	ok, err := exists(ctx, s.db, `SELECT COUNT(*) FROM playlists WHERE id = ?`, playlistID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPlaylistNotFound
	}
	return s.queryTracks(ctx, `SELECT `+trackColumns+trackFrom+`
		JOIN playlist_tracks pt ON pt.track_id = t.id
		WHERE pt.playlist_id = ?
		ORDER BY pt.position`, playlistID)
}
