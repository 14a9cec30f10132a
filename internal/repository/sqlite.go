package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"

	"github.com/guttosm/label-service/internal/domain/model"
)

const (
	sqliteBusyCode             = 5
	sqliteConstraintUniqueCode = 2067
	busyRetryAttempts          = 5
	busyRetryInitialBackoff    = 10 * time.Millisecond
	busyRetryMaxBackoff        = 200 * time.Millisecond
)

// sqliteTime is fixed width so stored timestamps sort as text.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS labels (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	system_name   TEXT NOT NULL,
	year          TEXT NOT NULL,
	month         TEXT NOT NULL,
	serial_number TEXT NOT NULL,
	batch_id      TEXT NOT NULL,
	issued_by     TEXT NOT NULL DEFAULT '',
	printed_at    TEXT NOT NULL,
	UNIQUE(system_name, year, month, serial_number)
);
CREATE INDEX IF NOT EXISTS idx_labels_batch ON labels(batch_id);
CREATE INDEX IF NOT EXISTS idx_labels_printed_at ON labels(printed_at);
CREATE TABLE IF NOT EXISTS audit_events (
	id           TEXT PRIMARY KEY,
	at           TEXT NOT NULL,
	action       TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	operator     TEXT NOT NULL DEFAULT '',
	request_id   TEXT NOT NULL DEFAULT '',
	session_id   TEXT NOT NULL DEFAULT '',
	system_name  TEXT NOT NULL DEFAULT '',
	batch_id     TEXT NOT NULL DEFAULT '',
	printer      TEXT NOT NULL DEFAULT '',
	error        TEXT NOT NULL DEFAULT '',
	batch        TEXT,
	duplicates   TEXT,
	http         TEXT
);
CREATE INDEX IF NOT EXISTS idx_audit_at ON audit_events(at);
CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_events(action, at);
`

// SQLiteHistory is the embedded issued-serial store.
type SQLiteHistory struct {
	db   *sql.DB
	path string
}

// OpenSQLiteHistory opens or creates the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLiteHistory(ctx context.Context, path string) (*SQLiteHistory, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &SQLiteHistory{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteHistory) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteHistory) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

// FindIssued returns the subset of serials already issued for the period.
func (s *SQLiteHistory) FindIssued(ctx context.Context, systemID, year, month string, serials []string) ([]string, error) {
	if len(serials) == 0 {
		return []string{}, nil
	}

	args := make([]any, 0, len(serials)+3)
	args = append(args, systemID, year, month)
	for _, serial := range serials {
		args = append(args, serial)
	}
	query := `SELECT serial_number FROM labels
		WHERE system_name = ? AND year = ? AND month = ?
		AND serial_number IN (` + placeholders(len(serials)) + `)`

	var found []string
	err := retryOnBusy(ctx, func() error {
		found = found[:0]
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var serial string
			if err := rows.Scan(&serial); err != nil {
				return err
			}
			found = append(found, serial)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("find issued serials: %w", err)
	}
	return orderLike(serials, found), nil
}

// RecordIssued inserts every entry in a single transaction.
func (s *SQLiteHistory) RecordIssued(ctx context.Context, entries []model.IssuedSerial) error {
	if len(entries) == 0 {
		return nil
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO labels
			(system_name, year, month, serial_number, batch_id, issued_by, printed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.SystemID, e.Year, e.Month, e.Serial, e.BatchID,
				e.IssuedBy, e.IssuedAt.UTC().Format(sqliteTime)); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("serial %s: %w", e.Serial, model.ErrSerialAlreadyIssued)
				}
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil && !errors.Is(err, model.ErrSerialAlreadyIssued) {
		return fmt.Errorf("record issued serials: %w", err)
	}
	return err
}

// History lists issued serials, newest first.
func (s *SQLiteHistory) History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error) {
	var (
		where []string
		args  []any
	)
	if q.SystemID != "" {
		where = append(where, "system_name = ?")
		args = append(args, q.SystemID)
	}
	if q.Year != "" {
		where = append(where, "year = ?")
		args = append(args, q.Year)
	}
	if q.Month != "" {
		where = append(where, "month = ?")
		args = append(args, q.Month)
	}

	query := `SELECT system_name, year, month, serial_number, batch_id, issued_by, printed_at FROM labels`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY printed_at DESC, id DESC LIMIT ?"
	args = append(args, historyLimit(q.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []model.IssuedSerial{}
	for rows.Next() {
		var (
			e  model.IssuedSerial
			at string
		)
		if err := rows.Scan(&e.SystemID, &e.Year, &e.Month, &e.Serial, &e.BatchID, &e.IssuedBy, &at); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.IssuedAt, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// orderLike returns the members of found in the order they appear in want.
func orderLike(want, found []string) []string {
	set := make(map[string]struct{}, len(found))
	for _, f := range found {
		set[f] = struct{}{}
	}
	out := make([]string, 0, len(found))
	for _, w := range want {
		if _, ok := set[w]; ok {
			out = append(out, w)
			delete(set, w)
		}
	}
	return out
}

func isUniqueViolation(err error) bool {
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteConstraintUniqueCode {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy reruns op with jittered exponential backoff while SQLite
// reports the database as locked. Other errors end the retries at once.
func retryOnBusy(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = busyRetryInitialBackoff
	policy.MaxInterval = busyRetryMaxBackoff
	policy.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isSQLiteBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, busyRetryAttempts-1), ctx))
}
