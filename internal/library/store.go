package library

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	dbutil "github.com/llehouerou/rwave/internal/db"
)

// Store is the SQLite-backed music library: artists, albums, tracks and
// playlists.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Open opens (or creates) the library database at path.
func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the schema if needed.
func New(ctx context.Context, db *sql.DB, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := initSchema(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db, log: log.Named("library"), now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
