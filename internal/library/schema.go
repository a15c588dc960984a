package library

import (
	"context"
	"database/sql"
)

const currentSchemaVersion = 1

// AllTracksID is the seeded playlist every imported track belongs to. It
// cannot be renamed or deleted.
const AllTracksID int64 = 1

const allTracksName = "All Tracks"

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS artists (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS albums (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			artist_id INTEGER NOT NULL REFERENCES artists(id),
			UNIQUE(name, artist_id)
		);

		CREATE INDEX IF NOT EXISTS idx_albums_artist ON albums(artist_id);

		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT NOT NULL UNIQUE,
			artist_id INTEGER NOT NULL REFERENCES artists(id),
			album_id INTEGER NOT NULL REFERENCES albums(id),
			track_number INTEGER,
			year INTEGER,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			mtime INTEGER NOT NULL DEFAULT 0,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);

		CREATE TABLE IF NOT EXISTS playlists (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS playlist_tracks (
			playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			track_id INTEGER NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY(playlist_id, track_id)
		);

		CREATE INDEX IF NOT EXISTS idx_playlist_tracks_position ON playlist_tracks(playlist_id, position);
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT OR IGNORE INTO playlists (id, name) VALUES (?, ?)
	`, AllTracksID, allTracksName)
	return err
}
