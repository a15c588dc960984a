package library

import (
	"context"
	"database/sql"
	"errors"
)

type Artist struct {
	ID   int64
	Name string
}

// EnsureArtist returns the id of the artist called name, creating it if
// needed.
func (s *Store) EnsureArtist(ctx context.Context, name string) (int64, error) {
	return ensureArtist(ctx, s.db, name)
}

func ensureArtist(ctx context.Context, q querier, name string) (int64, error) {
	name, err := cleanName(name)
	if err != nil {
		return 0, err
	}
	_, err = q.ExecContext(ctx, `INSERT OR IGNORE INTO artists (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	var id int64
	err = q.QueryRowContext(ctx, `SELECT id FROM artists WHERE name = ?`, name).Scan(&id)
	return id, err
}

func (s *Store) GetArtist(ctx context.Context, id int64) (*Artist, error) {
	var a Artist
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM artists WHERE id = ?`, id).Scan(&a.ID, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListArtists returns all artists sorted case-insensitively by name.
func (s *Store) ListArtists(ctx context.Context) ([]Artist, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM artists ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// DeleteArtist removes an artist that no album or track refers to.
func (s *Store) DeleteArtist(ctx context.Context, id int64) error {
	used, err := exists(ctx, s.db, `
		SELECT (SELECT COUNT(*) FROM albums WHERE artist_id = ?) + (SELECT COUNT(*) FROM tracks WHERE artist_id = ?)
	`, id, id)
	if err != nil {
		return err
	}
	if used {
		return ErrInUse
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrArtistNotFound)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
