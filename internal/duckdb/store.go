// Package duckdb persists digest results in DuckDB.
// Each plan's fragments are stored as rows keyed by plan ID, so results
// are queryable across runs.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for digest results.
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
			return nil, fmt.Errorf("create database directory: %w", err)
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

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist. The digest tables carry
// no primary keys: WriteDigest replaces a plan by delete and insert inside
// one transaction, which DuckDB rejects on indexed keys.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS digests (
			plan_id VARCHAR,
			size BIGINT,
			primary_text VARCHAR,
			complement_text VARCHAR,
			fragment_count BIGINT,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS digest_fragments (
			plan_id VARCHAR,
			fragment BIGINT,
			p_left BIGINT,
			p_right BIGINT,
			c_left BIGINT,
			c_right BIGINT,
			primary_seq VARCHAR,
			complement_seq VARCHAR,
			double_stranded BOOLEAN,
			layout VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS digest_sources (
			path VARCHAR PRIMARY KEY,
			size BIGINT,
			mod_time TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
