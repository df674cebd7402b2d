package repository

import (
	"context"
	"database/sql"
	"time"

	dr "disaster_response"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*dr.User, error)
}

// ReadingRepo is the historical-data sink for classified readings.
type ReadingRepo interface {
	// InsertBatch stores records; rows rejected individually come back as RowErrors,
	// a failure of the whole batch comes back as error.
	InsertBatch(ctx context.Context, records []dr.DetectionRecord) ([]RowError, error)
	List(ctx context.Context, f ReadingFilter) ([]dr.DetectionRecord, error)
}

type AlertRepo interface {
	Append(ctx context.Context, alerts []dr.Alert) error
	Recent(ctx context.Context, limit int) ([]dr.Alert, error)
	Clear(ctx context.Context) (int64, error)
}

// ReadingFilter narrows a history query.
type ReadingFilter struct {
	Location string    // case-insensitive substring; empty matches all
	Since    time.Time // lower bound on sensor_timestamp; zero means unbounded
	Limit    int       // <= 0 means DefaultListLimit
}

// RowError describes one record the sink refused.
type RowError struct {
	Index       int    `json:"index"`
	DetectionID string `json:"detection_id"`
	Message     string `json:"message"`
}

const DefaultListLimit = 100

type Repository struct {
	Readings ReadingRepo
	Alerts   AlertRepo
	Auth     Authorization
}

// NewRepository wires the SQLite-backed repositories.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Readings: NewReadingSQLite(db),
		Alerts:   NewAlertSQLite(db),
		Auth:     NewUserRepository(db),
	}
}

func limitOrDefault(n int) int {
	if n <= 0 || n > DefaultListLimit {
		return DefaultListLimit
	}
	return n
}
