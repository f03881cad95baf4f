package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// RecordSource stores the fingerprint of a plan file whose digests are in
// the store.
func (s *Store) RecordSource(fp FileFingerprint) error {
	if _, err := s.db.Exec("DELETE FROM digest_sources WHERE path=?", fp.Path); err != nil {
		return fmt.Errorf("clear source: %w", err)
	}
	if _, err := s.db.Exec("INSERT INTO digest_sources VALUES (?, ?, ?)",
		fp.Path, fp.Size, storedTime(fp.ModTime)); err != nil {
		return fmt.Errorf("record source: %w", err)
	}
	return nil
}

// SourceUnchanged reports whether fp matches the recorded fingerprint for
// its path.
func (s *Store) SourceUnchanged(fp FileFingerprint) (bool, error) {
	var size int64
	var modTime time.Time
	err := s.db.QueryRow("SELECT size, mod_time FROM digest_sources WHERE path=?", fp.Path).
		Scan(&size, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query source: %w", err)
	}
	return size == fp.Size && modTime.Equal(storedTime(fp.ModTime)), nil
}

// storedTime matches the microsecond precision of a DuckDB TIMESTAMP.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
