package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dr "disaster_response"

	"github.com/google/uuid"
)

const (
	insertAlertSQL = `
		INSERT INTO alerts (alert_id, message, severity, risk_level, location, reading_ts, action_required, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectRecentAlertsSQL = `
		SELECT alert_id, message, severity, risk_level, location, reading_ts, action_required, generated_at
		FROM alerts ORDER BY generated_at DESC, rowid DESC LIMIT ?
	`
	deleteAlertsSQL = `DELETE FROM alerts`
)

// AlertSQLite keeps the alert history.
type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

var _ AlertRepo = (*AlertSQLite)(nil)

// Append stores alerts atomically. Missing ids and generation times are filled in.
func (r *AlertSQLite) Append(ctx context.Context, alerts []dr.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin alert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range alerts {
		if a.AlertID == "" {
			a.AlertID = uuid.NewString()
		}
		if a.GeneratedAt.IsZero() {
			a.GeneratedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, insertAlertSQL,
			a.AlertID,
			a.Message,
			a.Severity,
			string(a.RiskLevel),
			a.Location,
			a.Timestamp,
			a.ActionRequired,
			a.GeneratedAt.UTC().Format(sqliteTimeLayout),
		); err != nil {
			return fmt.Errorf("insert alert %s: %w", a.AlertID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit alert transaction: %w", err)
	}
	return nil
}

// Recent returns the newest limit alerts (at most DefaultListLimit) in chronological order.
func (r *AlertSQLite) Recent(ctx context.Context, limit int) ([]dr.Alert, error) {
	if limit <= 0 {
		return []dr.Alert{}, nil
	}
	limit = limitOrDefault(limit)
	rows, err := r.db.QueryContext(ctx, selectRecentAlertsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	out := make([]dr.Alert, 0, limit)
	for rows.Next() {
		var (
			a    dr.Alert
			risk string
		)
		if err := rows.Scan(&a.AlertID, &a.Message, &a.Severity, &risk, &a.Location,
			&a.Timestamp, &a.ActionRequired, &a.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.RiskLevel = dr.RiskLevel(risk)
		a.GeneratedAt = a.GeneratedAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Clear wipes the alert history and reports how many alerts were removed.
func (r *AlertSQLite) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteAlertsSQL)
	if err != nil {
		return 0, fmt.Errorf("clear alerts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear alerts rows affected: %w", err)
	}
	return n, nil
}
