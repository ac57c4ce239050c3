package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Value keys. Each row lives and dies on its own; a corrupt layout never
// takes the presets down with it.
const (
	keyLayout  = "layout"
	keyPresets = "presets"
	keyLock    = "lock"
)

// SQLite is the Gateway backed by a single-file SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema is at
// the current version. Parent directories are created as needed.
func Open(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create state dir: %v", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: set busy timeout: %v", ErrUnavailable, err)
	}

	ver, err := currentSchemaVersion(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: check schema version: %v", ErrUnavailable, err)
	}
	if ver < schemaVersion {
		if err := migrateSchema(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: migrate schema: %v", ErrUnavailable, err)
		}
	}

	return &SQLite{db: db}, nil
}

// currentSchemaVersion returns the version from schema_meta, or 0 for a
// fresh database.
func currentSchemaVersion(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_meta'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	var ver int
	err = db.QueryRow("SELECT version FROM schema_meta LIMIT 1").Scan(&ver)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return ver, err
}

// migrateSchema recreates the schema from scratch. The stored values are a
// cache of in-memory state that the engine rewrites on every change, so a
// drop is never data loss worth a migration framework.
func migrateSchema(db *sql.DB) error {
	drops := []string{
		"DROP TABLE IF EXISTS kv",
		"DROP TABLE IF EXISTS schema_meta",
	}
	for _, stmt := range drops {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	if _, err := db.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("insert schema version: %w", err)
	}
	return nil
}

func (s *SQLite) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read %s: %v", ErrUnavailable, key, err)
	}
	return value, true, nil
}

func (s *SQLite) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// LoadLayout returns the persisted layout bytes.
func (s *SQLite) LoadLayout(ctx context.Context) ([]byte, bool, error) {
	value, ok, err := s.get(ctx, keyLayout)
	if !ok || err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// SaveLayout persists the layout bytes.
func (s *SQLite) SaveLayout(ctx context.Context, data []byte) error {
	return s.set(ctx, keyLayout, string(data))
}

// LoadPresets returns the persisted preset document bytes.
func (s *SQLite) LoadPresets(ctx context.Context) ([]byte, bool, error) {
	value, ok, err := s.get(ctx, keyPresets)
	if !ok || err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// SavePresets persists the preset document bytes.
func (s *SQLite) SavePresets(ctx context.Context, data []byte) error {
	return s.set(ctx, keyPresets, string(data))
}

// LoadLock returns the persisted lock flag. A value that does not parse as
// a boolean counts as absent.
func (s *SQLite) LoadLock(ctx context.Context) (bool, bool, error) {
	value, ok, err := s.get(ctx, keyLock)
	if !ok || err != nil {
		return false, false, err
	}
	locked, parseErr := strconv.ParseBool(value)
	if parseErr != nil {
		return false, false, nil
	}
	return locked, true, nil
}

// SaveLock persists the lock flag.
func (s *SQLite) SaveLock(ctx context.Context, locked bool) error {
	return s.set(ctx, keyLock, strconv.FormatBool(locked))
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
