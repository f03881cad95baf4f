package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-digest/internal/fragment"
)

// DigestSummary describes a stored digest.
type DigestSummary struct {
	PlanID        string
	Size          int64
	FragmentCount int64
	CreatedAt     time.Time
}

// WriteDigest stores the fragments of a plan, replacing any earlier result
// for the same plan ID. Fragment rows are batch-inserted with the Appender
// API. The replacement is one transaction: on error the earlier result is
// left in place.
func (s *Store) WriteDigest(planID string, frags *fragment.Fragments) (err error) {
	ctx := context.Background()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	if _, err := conn.ExecContext(ctx, "DELETE FROM digest_fragments WHERE plan_id=?", planID); err != nil {
		return fmt.Errorf("clear fragments: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "DELETE FROM digests WHERE plan_id=?", planID); err != nil {
		return fmt.Errorf("clear digest: %w", err)
	}
	if _, err := conn.ExecContext(ctx,
		"INSERT INTO digests VALUES (?, ?, ?, ?, ?, ?)",
		planID, int64(len(frags.Primary())), frags.Primary(), frags.Complement(),
		int64(frags.Len()), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert digest: %w", err)
	}

	if err := appendFragments(conn, planID, frags); err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit digest: %w", err)
	}
	return nil
}

func appendFragments(conn *sql.Conn, planID string, frags *fragment.Fragments) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "digest_fragments")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	for i, df := range frags.ForDisplay() {
		f := frags.At(i)
		if err := appender.AppendRow(
			planID, int64(i),
			nullable(df.PLeft), nullable(df.PRight),
			nullable(df.CLeft), nullable(df.CRight),
			df.Primary, df.Complement,
			f.DoubleStranded(), encodeLayout(f.Columns()),
		); err != nil {
			appender.Close()
			return fmt.Errorf("append fragment: %w", err)
		}
	}

	// Close flushes the remaining rows.
	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush fragments: %w", err)
	}
	return nil
}

// LookupDigest returns the stored fragments of a plan, or nil if the plan
// has not been stored.
func (s *Store) LookupDigest(planID string) (*fragment.Fragments, error) {
	var primary, complement string
	err := s.db.QueryRow(
		"SELECT primary_text, complement_text FROM digests WHERE plan_id=?", planID,
	).Scan(&primary, &complement)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query digest: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT layout FROM digest_fragments WHERE plan_id=? ORDER BY fragment", planID)
	if err != nil {
		return nil, fmt.Errorf("query fragments: %w", err)
	}
	defer rows.Close()

	frags := fragment.New(primary, complement)
	for rows.Next() {
		var layout string
		if err := rows.Scan(&layout); err != nil {
			return nil, fmt.Errorf("scan fragment: %w", err)
		}
		f, err := decodeLayout(layout)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", planID, err)
		}
		frags.Append(f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fragments: %w", err)
	}
	return frags, nil
}

// ListDigests returns a summary of every stored digest ordered by plan ID.
func (s *Store) ListDigests() ([]DigestSummary, error) {
	rows, err := s.db.Query(
		"SELECT plan_id, size, fragment_count, created_at FROM digests ORDER BY plan_id")
	if err != nil {
		return nil, fmt.Errorf("query digests: %w", err)
	}
	defer rows.Close()

	var out []DigestSummary
	for rows.Next() {
		var d DigestSummary
		if err := rows.Scan(&d.PlanID, &d.Size, &d.FragmentCount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan digest: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate digests: %w", err)
	}
	return out, nil
}

// ClearDigests removes all stored digests.
func (s *Store) ClearDigests() error {
	if _, err := s.db.Exec("DELETE FROM digest_fragments"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM digests")
	return err
}

func nullable(i *int) any {
	if i == nil {
		return nil
	}
	return int64(*i)
}

// encodeLayout writes columns as "index:strands" pairs, e.g. "0:PC,1:PC,2:C".
func encodeLayout(cols []fragment.Column) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		var b strings.Builder
		b.WriteString(strconv.Itoa(col.Index))
		b.WriteByte(':')
		if col.Primary {
			b.WriteByte('P')
		}
		if col.Complement {
			b.WriteByte('C')
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ",")
}

func decodeLayout(s string) (fragment.Fragment, error) {
	var f fragment.Fragment
	if s == "" {
		return f, nil
	}
	for _, part := range strings.Split(s, ",") {
		idx, strands, ok := strings.Cut(part, ":")
		if !ok {
			return f, fmt.Errorf("malformed layout column %q", part)
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return f, fmt.Errorf("malformed layout index %q", idx)
		}
		col := fragment.Column{
			Index:      i,
			Primary:    strings.Contains(strands, "P"),
			Complement: strings.Contains(strands, "C"),
		}
		if col.Primary {
			f.Primary = append(f.Primary, i)
		}
		if col.Complement {
			f.Complement = append(f.Complement, i)
		}
		f.Layout = append(f.Layout, col)
	}
	return f, nil
}
