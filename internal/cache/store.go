package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached search result row.
type Entry struct {
	ID        int64
	Key       string
	Result    []byte
	CreatedAt time.Time
}

// Fresh reports whether the entry is still within the freshness window at
// the given time. An entry exactly at the window boundary is stale.
func (e *Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) < ttl
}

// Store manages SQLite persistence for cached search results. Expired rows
// are never deleted, only ignored; a fresh row is inserted alongside them.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store with the database at ~/.bionova/cache.db.
// The directory and database file are created if they don't exist.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	bionovaDir := filepath.Join(homeDir, ".bionova")
	if err := os.MkdirAll(bionovaDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .bionova directory: %w", err)
	}

	dbPath := filepath.Join(bionovaDir, "cache.db")
	return NewStoreWithPath(dbPath)
}

// NewStoreWithPath creates a new Store with a custom database path.
// This is useful for testing.
func NewStoreWithPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the searches table if it doesn't exist
func (s *Store) migrate() error {
	createTableSQL := `
		CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			result TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
	`
	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create searches table: %w", err)
	}

	createIndexSQL := `
		CREATE INDEX IF NOT EXISTS idx_searches_query
		ON searches(query, created_at);
	`
	if _, err := s.db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Lookup retrieves the newest cached entry for the given key, or nil when
// none exists. Freshness is the caller's concern via Entry.Fresh.
func (s *Store) Lookup(ctx context.Context, key string) (*Entry, error) {
	query := `
		SELECT id, query, result, created_at
		FROM searches
		WHERE query = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query, key)

	var entry Entry
	var createdAt string
	err := row.Scan(&entry.ID, &entry.Key, &entry.Result, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to look up cache entry: %w", err)
	}

	entry.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAt)
	if err != nil {
		// Try alternative format
		entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
	}

	return &entry, nil
}

// Insert stores a new cache entry for the given key. Existing rows for the
// same key are left in place; Lookup always returns the newest one.
func (s *Store) Insert(ctx context.Context, key string, result []byte) error {
	return s.InsertAt(ctx, key, result, time.Now().UTC())
}

// InsertAt stores a new cache entry with an explicit creation time.
// This is useful for testing freshness boundaries.
func (s *Store) InsertAt(ctx context.Context, key string, result []byte, createdAt time.Time) error {
	insertSQL := `
		INSERT INTO searches (query, result, created_at)
		VALUES (?, ?, ?);
	`
	_, err := s.db.ExecContext(ctx, insertSQL, key, result, createdAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
