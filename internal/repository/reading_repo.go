package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	dr "disaster_response"
)

// sqliteTimeLayout sorts lexically in time order.
const sqliteTimeLayout = "2006-01-02 15:04:05.000"

const (
	insertReadingSQL = `
		INSERT INTO sensor_readings (detection_id, location, temperature, smoke_level, risk_level, sensor_timestamp, processed_timestamp, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectReadingsSQL = `SELECT detection_id, location, temperature, smoke_level, risk_level, sensor_timestamp, processed_timestamp, source FROM sensor_readings`
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

// InsertBatch writes all records in one transaction. A row that fails is reported
// and skipped; the rest are still committed.
func (r *ReadingSQLite) InsertBatch(ctx context.Context, records []dr.DetectionRecord) ([]RowError, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rowErrs []RowError
	for i, rec := range records {
		_, err := tx.ExecContext(ctx, insertReadingSQL,
			rec.DetectionID,
			rec.Location,
			rec.Temperature,
			rec.SmokeLevel,
			string(rec.RiskLevel),
			rec.SensorTimestamp.UTC().Format(sqliteTimeLayout),
			rec.ProcessedTimestamp.UTC().Format(sqliteTimeLayout),
			rec.Source,
		)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Index: i, DetectionID: rec.DetectionID, Message: err.Error()})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert transaction: %w", err)
	}
	return rowErrs, nil
}

// List returns readings newest first.
func (r *ReadingSQLite) List(ctx context.Context, f ReadingFilter) ([]dr.DetectionRecord, error) {
	var (
		conds []string
		args  []any
	)
	if loc := strings.TrimSpace(f.Location); loc != "" {
		conds = append(conds, "LOWER(location) LIKE ?")
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}
	if !f.Since.IsZero() {
		conds = append(conds, "sensor_timestamp >= ?")
		args = append(args, f.Since.UTC().Format(sqliteTimeLayout))
	}

	q := selectReadingsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY sensor_timestamp DESC LIMIT ?"
	args = append(args, limitOrDefault(f.Limit))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	out := make([]dr.DetectionRecord, 0, 16)
	for rows.Next() {
		var (
			rec  dr.DetectionRecord
			risk string
		)
		if err := rows.Scan(&rec.DetectionID, &rec.Location, &rec.Temperature, &rec.SmokeLevel,
			&risk, &rec.SensorTimestamp, &rec.ProcessedTimestamp, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		rec.RiskLevel = dr.RiskLevel(risk)
		rec.SensorTimestamp = rec.SensorTimestamp.UTC()
		rec.ProcessedTimestamp = rec.ProcessedTimestamp.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
