// Package postgres stores classified readings in Postgres or TimescaleDB.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	dr "disaster_response"
	"disaster_response/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidTable = errors.New("invalid table name")

	tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// pool is the subset of *pgxpool.Pool the repository needs.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ReadingRepo implements repository.ReadingRepo on a pgx pool.
type ReadingRepo struct {
	pool  pool
	table string
}

var _ repository.ReadingRepo = (*ReadingRepo)(nil)

// Open connects a pool and makes sure the readings table exists.
func Open(ctx context.Context, dsn, table string, maxConns int32) (*pgxpool.Pool, *ReadingRepo, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	repo, err := New(p, table)
	if err != nil {
		p.Close()
		return nil, nil, err
	}
	if err := repo.InitializeTable(ctx); err != nil {
		p.Close()
		return nil, nil, err
	}
	return p, repo, nil
}

// New wraps an existing pool. The table name is interpolated into SQL, so it is validated here.
func New(p pool, table string) (*ReadingRepo, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return &ReadingRepo{pool: p, table: table}, nil
}

// InitializeTable creates the table and, when TimescaleDB is installed, turns it into a hypertable.
func (r *ReadingRepo) InitializeTable(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, r.createTableSQL()); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	// Plain Postgres has no create_hypertable; the table still works without it.
	_, _ = r.pool.Exec(ctx, fmt.Sprintf(
		`SELECT create_hypertable('%s', 'sensor_timestamp', if_not_exists => TRUE, migrate_data => TRUE)`, r.table))
	return nil
}

func (r *ReadingRepo) createTableSQL() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			detection_id TEXT NOT NULL,
			location TEXT NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			smoke_level DOUBLE PRECISION NOT NULL,
			risk_level TEXT NOT NULL,
			sensor_timestamp TIMESTAMPTZ NOT NULL,
			processed_timestamp TIMESTAMPTZ NOT NULL,
			source TEXT NOT NULL
		)`, r.table)
}

func (r *ReadingRepo) insertSQL() string {
	return fmt.Sprintf(`
		INSERT INTO %s (detection_id, location, temperature, smoke_level, risk_level, sensor_timestamp, processed_timestamp, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, r.table)
}

// InsertBatch inserts each record on its own so one bad row does not roll back the others.
// A connection level failure aborts the batch.
func (r *ReadingRepo) InsertBatch(ctx context.Context, records []dr.DetectionRecord) ([]repository.RowError, error) {
	q := r.insertSQL()

	var rowErrs []repository.RowError
	for i, rec := range records {
		_, err := r.pool.Exec(ctx, q,
			rec.DetectionID,
			rec.Location,
			rec.Temperature,
			rec.SmokeLevel,
			string(rec.RiskLevel),
			rec.SensorTimestamp.UTC(),
			rec.ProcessedTimestamp.UTC(),
			rec.Source,
		)
		if err == nil {
			continue
		}
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) {
			return rowErrs, fmt.Errorf("insert reading %d: %w", i, err)
		}
		rowErrs = append(rowErrs, repository.RowError{Index: i, DetectionID: rec.DetectionID, Message: pgErr.Message})
	}
	return rowErrs, nil
}

// List returns readings newest first.
func (r *ReadingRepo) List(ctx context.Context, f repository.ReadingFilter) ([]dr.DetectionRecord, error) {
	q, args := r.listQuery(f)
	rows, err := r.pool.Query(ctx, q, args...)
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

func (r *ReadingRepo) listQuery(f repository.ReadingFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if loc := strings.TrimSpace(f.Location); loc != "" {
		args = append(args, "%"+loc+"%")
		conds = append(conds, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since.UTC())
		conds = append(conds, fmt.Sprintf("sensor_timestamp >= $%d", len(args)))
	}

	limit := f.Limit
	if limit <= 0 || limit > repository.DefaultListLimit {
		limit = repository.DefaultListLimit
	}
	args = append(args, limit)

	q := fmt.Sprintf(`SELECT detection_id, location, temperature, smoke_level, risk_level, sensor_timestamp, processed_timestamp, source FROM %s`, r.table)
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY sensor_timestamp DESC LIMIT $%d", len(args))
	return q, args
}
