package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	dr "disaster_response"
	"disaster_response/internal/logger"
	"disaster_response/internal/repository"

	"github.com/google/uuid"
)

// Sink outcomes reported by HistoryService.Record.
const (
	SinkSuccess      = "success"
	SinkError        = "error"
	SinkInsertErrors = "insert_errors"
	SinkNotAttempted = "not_attempted"
)

const (
	DefaultHoursBack = 24
	MaxHoursBack     = 10 * 365 * 24 // ten years
)

var (
	ErrHistoryDisabled  = errors.New("historical data sink is disabled")
	ErrInvalidHoursBack = errors.New("hours_back must be between 1 and 87600")
)

type HistoryOptions struct {
	Enabled bool
	Driver  string
	Table   string
}

// SinkStatus is the outcome of one write to the historical-data sink.
type SinkStatus struct {
	Status      string                `json:"status"`
	RowsWritten int                   `json:"rows_written"`
	Message     string                `json:"message,omitempty"`
	Error       string                `json:"error,omitempty"`
	RowErrors   []repository.RowError `json:"row_errors,omitempty"`
}

// SinkInfo describes the configured sink for /status.
type SinkInfo struct {
	Enabled bool   `json:"enabled"`
	Driver  string `json:"driver"`
	Table   string `json:"table"`
}

// HistoryFilter selects historical readings.
type HistoryFilter struct {
	Location  string
	HoursBack int // 0 means DefaultHoursBack
}

type HistoryService struct {
	repo  repository.ReadingRepo
	opts  HistoryOptions
	log   *logger.Logger
	obs   Observer
	now   func() time.Time
	newID func() string
}

func NewHistoryService(repo repository.ReadingRepo, opts HistoryOptions, log *logger.Logger, obs Observer) *HistoryService {
	if log == nil {
		log = logger.Nop()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	if repo == nil {
		opts.Enabled = false
	}
	return &HistoryService{
		repo:  repo,
		opts:  opts,
		log:   log,
		obs:   obs,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Record writes one row per verdict. It never fails the caller; the outcome is in the status.
func (s *HistoryService) Record(ctx context.Context, verdicts []dr.RiskVerdict, source string) SinkStatus {
	st := s.record(ctx, verdicts, source)
	s.obs.ObserveSink(st.Status)
	return st
}

func (s *HistoryService) record(ctx context.Context, verdicts []dr.RiskVerdict, source string) SinkStatus {
	if !s.opts.Enabled {
		return SinkStatus{Status: SinkNotAttempted, Message: "historical data sink disabled"}
	}
	if len(verdicts) == 0 {
		return SinkStatus{Status: SinkSuccess, Message: "no readings to record"}
	}

	processed := s.now().UTC()
	records := make([]dr.DetectionRecord, 0, len(verdicts))
	for _, v := range verdicts {
		records = append(records, dr.DetectionRecord{
			DetectionID:        s.newID(),
			Location:           v.Location,
			Temperature:        v.Temperature,
			SmokeLevel:         v.SmokeLevel,
			RiskLevel:          v.RiskLevel,
			SensorTimestamp:    sensorTime(v.Timestamp, processed),
			ProcessedTimestamp: processed,
			Source:             source,
		})
	}

	rowErrs, err := s.repo.InsertBatch(ctx, records)
	if err != nil {
		s.log.Errorw("history_insert_failed", "driver", s.opts.Driver, "rows", len(records), "err", err)
		return SinkStatus{Status: SinkError, Error: err.Error()}
	}
	written := len(records) - len(rowErrs)
	if len(rowErrs) > 0 {
		s.log.Warnw("history_insert_row_errors", "driver", s.opts.Driver, "failed", len(rowErrs), "written", written)
		return SinkStatus{
			Status:      SinkInsertErrors,
			RowsWritten: written,
			RowErrors:   rowErrs,
			Message:     fmt.Sprintf("%d of %d rows rejected", len(rowErrs), len(records)),
		}
	}
	s.log.Debugw("history_recorded", "driver", s.opts.Driver, "rows", written, "source", source)
	return SinkStatus{
		Status:      SinkSuccess,
		RowsWritten: written,
		Message:     fmt.Sprintf("logged %d readings", written),
	}
}

// Query returns readings of the last HoursBack hours, newest first.
func (s *HistoryService) Query(ctx context.Context, f HistoryFilter) ([]dr.DetectionRecord, error) {
	if !s.opts.Enabled {
		return nil, ErrHistoryDisabled
	}
	hours := f.HoursBack
	switch {
	case hours == 0:
		hours = DefaultHoursBack
	case hours < 0, hours > MaxHoursBack:
		return nil, ErrInvalidHoursBack
	}
	return s.repo.List(ctx, repository.ReadingFilter{
		Location: f.Location,
		Since:    s.now().UTC().Add(-time.Duration(hours) * time.Hour),
		Limit:    repository.DefaultListLimit,
	})
}

func (s *HistoryService) Info() SinkInfo {
	return SinkInfo{Enabled: s.opts.Enabled, Driver: s.opts.Driver, Table: s.opts.Table}
}

// sensorTime parses a reading timestamp, falling back when it is not RFC 3339.
func sensorTime(ts string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t.UTC()
	}
	return fallback
}
