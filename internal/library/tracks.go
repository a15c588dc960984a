package library

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	dbutil "github.com/llehouerou/rwave/internal/db"
)

const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

type Track struct {
	ID          int64
	Name        string
	Path        string
	ArtistID    int64
	Artist      string
	AlbumID     int64
	Album       string
	TrackNumber int
	Year        int
	Duration    time.Duration
	Mtime       int64
}

// SearchText is what free-text track search matches against.
func (t Track) SearchText() string {
	return t.Artist + " " + t.Album + " " + t.Name
}

// TrackInput holds the writable fields of a track. Artist and album are
// referenced by name and created on demand.
type TrackInput struct {
	Name        string
	Path        string
	Artist      string
	Album       string
	TrackNumber int
	Year        int
	Duration    time.Duration
	Mtime       int64
}

func (in TrackInput) normalize() (TrackInput, error) {
	in.Path = strings.TrimSpace(in.Path)
	if in.Path == "" {
		return in, ErrEmptyPath
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, ErrEmptyName
	}
	if strings.TrimSpace(in.Artist) == "" {
		in.Artist = UnknownArtist
	}
	if strings.TrimSpace(in.Album) == "" {
		in.Album = UnknownAlbum
	}
	return in, nil
}

// CreateTrack inserts a track, creating its artist and album as needed,
// and appends it to the All Tracks playlist.
func (s *Store) CreateTrack(ctx context.Context, in TrackInput) (int64, error) {
	in, err := in.normalize()
	if err != nil {
		return 0, err
	}

	var id int64
	err = dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx, `SELECT COUNT(*) FROM tracks WHERE path = ?`, in.Path)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicatePath
		}

		artistID, albumID, err := ensureArtistAlbum(ctx, tx, in)
		if err != nil {
			return err
		}

		now := s.now().Unix()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (name, path, artist_id, album_id, track_number, year, duration_secs, mtime, added_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, in.Name, in.Path, artistID, albumID, nullInt(in.TrackNumber), nullInt(in.Year),
			int64(in.Duration/time.Second), in.Mtime, now, now)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return appendToPlaylist(ctx, tx, AllTracksID, id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func ensureArtistAlbum(ctx context.Context, tx *sql.Tx, in TrackInput) (artistID, albumID int64, err error) {
	artistID, err = ensureArtist(ctx, tx, in.Artist)
	if err != nil {
		return 0, 0, err
	}
	albumID, err = ensureAlbum(ctx, tx, in.Album, artistID)
	if err != nil {
		return 0, 0, err
	}
	return artistID, albumID, nil
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v > 0}
}

const trackColumns = `
	t.id, t.name, t.path, t.artist_id, ar.name, t.album_id, al.name,
	t.track_number, t.year, t.duration_secs, t.mtime`

const trackFrom = `
	FROM tracks t
	JOIN artists ar ON ar.id = t.artist_id
	JOIN albums al ON al.id = t.album_id`

func scanTrack(row interface{ Scan(...any) error }) (Track, error) {
	var t Track
	var trackNum, year sql.NullInt64
	var secs int64
	err := row.Scan(&t.ID, &t.Name, &t.Path, &t.ArtistID, &t.Artist, &t.AlbumID, &t.Album,
		&trackNum, &year, &secs, &t.Mtime)
	if err != nil {
		return t, err
	}
	t.TrackNumber = int(dbutil.NullInt64Value(trackNum))
	t.Year = int(dbutil.NullInt64Value(year))
	t.Duration = time.Duration(secs) * time.Second
	return t, nil
}

func (s *Store) queryTrack(ctx context.Context, where string, arg any) (*Track, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+trackColumns+trackFrom+` WHERE `+where, arg)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrackNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTrack(ctx context.Context, id int64) (*Track, error) {
	return s.queryTrack(ctx, `t.id = ?`, id)
}

func (s *Store) GetTrackByPath(ctx context.Context, path string) (*Track, error) {
	return s.queryTrack(ctx, `t.path = ?`, path)
}

func (s *Store) queryTracks(ctx context.Context, query string, args ...any) ([]Track, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// ListTracks returns every track ordered by artist, album and track number.
func (s *Store) ListTracks(ctx context.Context) ([]Track, error) {
	return s.queryTracks(ctx, `SELECT `+trackColumns+trackFrom+`
		ORDER BY ar.name COLLATE NOCASE, al.name COLLATE NOCASE, t.track_number, t.name COLLATE NOCASE`)
}

// TrackCount returns the number of tracks in the library.
func (s *Store) TrackCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n)
	return n, err
}

// UpdateTrack overwrites the track's fields. Artists and albums left
// without tracks are kept.
func (s *Store) UpdateTrack(ctx context.Context, id int64, in TrackInput) error {
	in, err := in.normalize()
	if err != nil {
		return err
	}

	return dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, `SELECT COUNT(*) FROM tracks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrTrackNotFound
		}
		dup, err := exists(ctx, tx, `SELECT COUNT(*) FROM tracks WHERE path = ? AND id != ?`, in.Path, id)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicatePath
		}

		artistID, albumID, err := ensureArtistAlbum(ctx, tx, in)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE tracks
			SET name = ?, path = ?, artist_id = ?, album_id = ?, track_number = ?, year = ?,
				duration_secs = ?, mtime = ?, updated_at = ?
			WHERE id = ?
		`, in.Name, in.Path, artistID, albumID, nullInt(in.TrackNumber), nullInt(in.Year),
			int64(in.Duration/time.Second), in.Mtime, s.now().Unix(), id)
		return err
	})
}

// DeleteTrack removes the track and all its playlist memberships.
func (s *Store) DeleteTrack(ctx context.Context, id int64) error {
	return dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE track_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireAffected(res, ErrTrackNotFound)
	})
}
