package kvstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pharmacertlabs/pharmacert/internal/database"
)

// SQLite implements Backend on the shared local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the key-value table at the default database path.
func OpenSQLite() (*SQLite, error) {
	db, err := database.OpenDefault()
	if err != nil {
		return nil, fmt.Errorf("kvstore: %w", err)
	}
	return newSQLite(db)
}

// OpenSQLiteAt opens the key-value table in the database at path.
func OpenSQLiteAt(path string) (*SQLite, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kvstore: %w", err)
	}
	return newSQLite(db)
}

func newSQLite(db *sql.DB) (*SQLite, error) {
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS kv_store (
            key        TEXT PRIMARY KEY,
            value      BLOB NOT NULL,
            updated_at TEXT NOT NULL
        );
    `
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("kvstore: migration failed: %w", err)
	}
	return nil
}

func (s *SQLite) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: query failed: %w", err)
	}
	return value, nil
}

func (s *SQLite) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
        INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("kvstore: upsert failed: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}
