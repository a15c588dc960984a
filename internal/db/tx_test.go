package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(Memory)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n
}

func TestWithTx(t *testing.T) {
	abort := errors.New("abort")

	tests := []struct {
		name    string
		values  []string
		fail    error
		wantErr error
		want    int
	}{
		{"single insert", []string{"a"}, nil, nil, 1},
		{"multiple inserts", []string{"a", "b", "c"}, nil, nil, 3},
		{"rollback", []string{"a"}, abort, abort, 0},
		{"partial rollback", []string{"a", "b"}, abort, abort, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)

			err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
				for _, v := range tt.values {
					if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, v); err != nil {
						return err
					}
				}
				return tt.fail
			})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("WithTx() error = %v, want %v", err, tt.wantErr)
			}
			if got := count(t, db); got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWithTx_CancelledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, db, func(*sql.Tx) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("WithTx should fail with a cancelled context")
	}
	if called {
		t.Error("fn should not run when Begin fails")
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rwave.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("pragma query failed: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestNullHelpers(t *testing.T) {
	if got := NullInt64Value(sql.NullInt64{Int64: 123, Valid: true}); got != 123 {
		t.Errorf("NullInt64Value(valid) = %d, want 123", got)
	}
	if got := NullInt64Value(sql.NullInt64{Int64: 123}); got != 0 {
		t.Errorf("NullInt64Value(invalid) = %d, want 0", got)
	}
	if got := NullStringValue(sql.NullString{String: "x"}); got != "" {
		t.Errorf("NullStringValue(invalid) = %q, want empty", got)
	}
	if ns := NullString(""); ns.Valid {
		t.Error("NullString(\"\") should be NULL")
	}
	if ns := NullString("rock"); !ns.Valid || ns.String != "rock" {
		t.Errorf("NullString(\"rock\") = %+v", ns)
	}
}
