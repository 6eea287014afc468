package metrics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Endpoint identifies the API operation being counted.
type Endpoint string

const (
	EndpointSearch       Endpoint = "search"
	EndpointExtendSearch Endpoint = "extend_search"
	EndpointTimeline     Endpoint = "timeline_analysis"
	EndpointComparison   Endpoint = "comparison"
	EndpointHypothesis   Endpoint = "hypothesis"
	EndpointGlossary     Endpoint = "glossary"
	EndpointChat         Endpoint = "chat"
)

// AllEndpoints lists every counted operation.
var AllEndpoints = []Endpoint{
	EndpointSearch,
	EndpointExtendSearch,
	EndpointTimeline,
	EndpointComparison,
	EndpointHypothesis,
	EndpointGlossary,
	EndpointChat,
}

// Store manages SQLite persistence for per-endpoint request counts.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store with the database at ~/.bionova/stats.db.
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

	dbPath := filepath.Join(bionovaDir, "stats.db")
	return NewStoreWithPath(dbPath)
}

// NewStoreWithPath creates a new Store with a custom database path.
// This is useful for testing.
func NewStoreWithPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS request_counts (
			endpoint TEXT NOT NULL,
			date TEXT NOT NULL,
			count INTEGER DEFAULT 0,
			PRIMARY KEY (endpoint, date)
		);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Increment increments the count for the given endpoint for today's date.
func (s *Store) Increment(endpoint Endpoint) error {
	today := time.Now().Format("2006-01-02")

	upsertSQL := `
		INSERT INTO request_counts (endpoint, date, count)
		VALUES (?, ?, 1)
		ON CONFLICT(endpoint, date) DO UPDATE SET count = count + 1;
	`
	_, err := s.db.Exec(upsertSQL, string(endpoint), today)
	if err != nil {
		return fmt.Errorf("failed to increment count: %w", err)
	}

	return nil
}

// GetTotalByEndpoint returns the cumulative count for one endpoint across
// all dates.
func (s *Store) GetTotalByEndpoint(endpoint Endpoint) (int64, error) {
	var total int64
	row := s.db.QueryRow(
		"SELECT COALESCE(SUM(count), 0) FROM request_counts WHERE endpoint = ?",
		string(endpoint),
	)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to get total for endpoint %s: %w", endpoint, err)
	}
	return total, nil
}

// GetAllTotals returns a map of cumulative counts for all endpoints.
func (s *Store) GetAllTotals() (map[Endpoint]int64, error) {
	result := make(map[Endpoint]int64)
	for _, endpoint := range AllEndpoints {
		result[endpoint] = 0
	}

	rows, err := s.db.Query(
		"SELECT endpoint, COALESCE(SUM(count), 0) FROM request_counts GROUP BY endpoint",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var endpointStr string
		var total int64
		if err := rows.Scan(&endpointStr, &total); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result[Endpoint(endpointStr)] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
