package library

import (
	"context"
	"database/sql"
	"errors"
)

type Album struct {
	ID       int64
	Name     string
	ArtistID int64
	Artist   string
}

// EnsureAlbum returns the id of the album name by artistID, creating it
// if needed.
func (s *Store) EnsureAlbum(ctx context.Context, name string, artistID int64) (int64, error) {
	return ensureAlbum(ctx, s.db, name, artistID)
}

func ensureAlbum(ctx context.Context, q querier, name string, artistID int64) (int64, error) {
	name, err := cleanName(name)
	if err != nil {
		return 0, err
	}
	ok, err := exists(ctx, q, `SELECT COUNT(*) FROM artists WHERE id = ?`, artistID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrArtistNotFound
	}
	_, err = q.ExecContext(ctx, `INSERT OR IGNORE INTO albums (name, artist_id) VALUES (?, ?)`, name, artistID)
	if err != nil {
		return 0, err
	}
	var id int64
	err = q.QueryRowContext(ctx, `SELECT id FROM albums WHERE name = ? AND artist_id = ?`, name, artistID).Scan(&id)
	return id, err
}

const albumColumns = `al.id, al.name, al.artist_id, ar.name`

func scanAlbum(row interface{ Scan(...any) error }) (Album, error) {
	var a Album
	err := row.Scan(&a.ID, &a.Name, &a.ArtistID, &a.Artist)
	return a, err
}

func (s *Store) GetAlbum(ctx context.Context, id int64) (*Album, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums al JOIN artists ar ON ar.id = al.artist_id
		WHERE al.id = ?
	`, id)
	a, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAlbums returns all albums ordered by artist then album name.
func (s *Store) ListAlbums(ctx context.Context) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+albumColumns+`
		FROM albums al JOIN artists ar ON ar.id = al.artist_id
		ORDER BY ar.name COLLATE NOCASE, al.name COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// DeleteAlbum removes an album that no track refers to.
func (s *Store) DeleteAlbum(ctx context.Context, id int64) error {
	used, err := exists(ctx, s.db, `SELECT COUNT(*) FROM tracks WHERE album_id = ?`, id)
	if err != nil {
		return err
	}
	if used {
		return ErrInUse
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrAlbumNotFound)
}
