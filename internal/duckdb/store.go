// Package duckdb stores query scoring results in DuckDB so that runs can be
// inspected and compared after the fact. Trained models are never stored;
// only the fingerprint of the training file that produced the results.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for scoring results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS training_runs (
		training_path VARCHAR PRIMARY KEY,
		training_size BIGINT,
		training_modtime TIMESTAMP,
		positions BIGINT,
		sequences BIGINT,
		pseudocount DOUBLE
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS query_results (
		training_path VARCHAR,
		query_id VARCHAR,
		query_length BIGINT,
		score DOUBLE,
		path VARCHAR,
		match_fraction DOUBLE,
		mean_match_run DOUBLE,
		match_hit BOOLEAN,
		has_threshold BOOLEAN,
		above_threshold BOOLEAN,
		PRIMARY KEY (training_path, query_id)
	)`)
	return err
}
