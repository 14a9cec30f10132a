package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/label-service/internal/domain/model"
)

// SQLiteAudit is the audit journal kept next to the issued-serial history.
type SQLiteAudit struct {
	db *sql.DB
}

// Audit returns the audit journal sharing this database.
func (s *SQLiteHistory) Audit() *SQLiteAudit {
	return &SQLiteAudit{db: s.db}
}

// Append inserts events in one transaction.
func (a *SQLiteAudit) Append(ctx context.Context, events []model.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := a.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO audit_events
			(id, at, action, outcome, operator, request_id, session_id, system_name,
			 batch_id, printer, error, batch, duplicates, http)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range events {
			e := &events[i]
			var systemID, batchID string
			if e.Batch != nil {
				systemID, batchID = e.Batch.SystemID, e.Batch.BatchID
			}
			batch, err := jsonColumn(e.Batch)
			if err != nil {
				return err
			}
			dups, err := jsonColumn(e.Duplicates)
			if err != nil {
				return err
			}
			exchange, err := jsonColumn(e.HTTP)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, e.ID, e.At.UTC().Format(sqliteTime), string(e.Action),
				string(e.Outcome), e.Operator, e.RequestID, e.SessionID, systemID, batchID,
				e.Printer, e.Error, batch, dups, exchange); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("append audit events: %w", err)
	}
	return nil
}

// Find lists matching events, newest first.
func (a *SQLiteAudit) Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error) {
	where, args := auditWhere(f)
	query := `SELECT id, at, action, outcome, operator, request_id, session_id, printer, error,
		batch, duplicates, http FROM audit_events` + where + ` ORDER BY at DESC, id DESC LIMIT ?`
	args = append(args, f.EffectiveLimit())

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer rows.Close()

	out := []model.AuditEvent{}
	for rows.Next() {
		var (
			e                     model.AuditEvent
			at, action, outcome   string
			batch, dups, exchange sql.NullString
		)
		if err := rows.Scan(&e.ID, &at, &action, &outcome, &e.Operator, &e.RequestID, &e.SessionID,
			&e.Printer, &e.Error, &batch, &dups, &exchange); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		e.Action = model.AuditAction(action)
		e.Outcome = model.AuditOutcome(outcome)
		if err := decodeColumn(batch, &e.Batch); err != nil {
			return nil, err
		}
		if err := decodeColumn(dups, &e.Duplicates); err != nil {
			return nil, err
		}
		if err := decodeColumn(exchange, &e.HTTP); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of matching events.
func (a *SQLiteAudit) Count(ctx context.Context, f model.AuditFilter) (int64, error) {
	where, args := auditWhere(f)
	var n int64
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}

// PruneBefore deletes events recorded before cutoff and returns how many
// were removed.
func (a *SQLiteAudit) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := a.db.ExecContext(ctx, `DELETE FROM audit_events WHERE at < ?`, cutoff.UTC().Format(sqliteTime))
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune audit events: %w", err)
	}
	return removed, nil
}

func auditWhere(f model.AuditFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}
	if f.Action != "" {
		add("action = ?", string(f.Action))
	}
	if f.Outcome != "" {
		add("outcome = ?", string(f.Outcome))
	}
	if f.Operator != "" {
		add("operator = ?", f.Operator)
	}
	if f.RequestID != "" {
		add("request_id = ?", f.RequestID)
	}
	if f.SystemID != "" {
		add("system_name = ?", f.SystemID)
	}
	if f.BatchID != "" {
		add("batch_id = ?", f.BatchID)
	}
	if !f.Since.IsZero() {
		add("at >= ?", f.Since.UTC().Format(sqliteTime))
	}
	if !f.Until.IsZero() {
		add("at <= ?", f.Until.UTC().Format(sqliteTime))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// jsonColumn encodes v, storing NULL for nil pointers and empty slices.
func jsonColumn(v any) (any, error) {
	switch t := v.(type) {
	case *model.BatchScope:
		if t == nil {
			return nil, nil
		}
	case *model.HTTPExchange:
		if t == nil {
			return nil, nil
		}
	case []string:
		if len(t) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode audit column: %w", err)
	}
	return string(data), nil
}

func decodeColumn(col sql.NullString, dst any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), dst); err != nil {
		return fmt.Errorf("decode audit column: %w", err)
	}
	return nil
}
