package service

import (
	"context"
	"time"

	dr "disaster_response"
	"disaster_response/internal/logger"
	"disaster_response/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Analysis classifies parsed readings.
type Analysis interface {
	Analyze(readings []dr.SensorReading) dr.BatchResult
}

// History is the historical-data sink.
type History interface {
	Record(ctx context.Context, verdicts []dr.RiskVerdict, source string) SinkStatus
	Query(ctx context.Context, f HistoryFilter) ([]dr.DetectionRecord, error)
	Info() SinkInfo
}

// Alerts turns verdicts into notifications and keeps their history.
type Alerts interface {
	Process(ctx context.Context, batch dr.BatchResult) AlertReport
	Recent(ctx context.Context, count int) ([]dr.Alert, error)
	Clear(ctx context.Context) (int64, error)
	Notifiers() []string
	Enabled() bool
}

// Detection loads sensor readings from the data directory.
type Detection interface {
	Load(filePath, pattern string) ([]dr.SensorReading, string, error)
	Files(pattern string) ([]DataFile, error)
	DataDir() string
}

// Pipeline runs the analyze -> history -> alerts chain.
type Pipeline interface {
	Run(ctx context.Context, readings []dr.SensorReading, source string) (PipelineResult, error)
	StepNames() []string
}

// Scanner feeds new data files through the pipeline until ctx is canceled.
type Scanner interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Authorization
	Analysis
	History
	Alerts
	Detection
	Pipeline
	Scanner
}

// Options carries the runtime switches the services are built with.
type Options struct {
	History   HistoryOptions
	Alerts    AlertOptions
	Detection DetectionOptions
	Auth      AuthOptions
	Observer  Observer
	Notifiers []Notifier
	// Readings overrides repos.Readings, e.g. with the Postgres sink.
	Readings repository.ReadingRepo
}

// NewService wires repositories into the concrete services.
func NewService(repos *repository.Repository, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	readings := opts.Readings
	if readings == nil {
		readings = repos.Readings
	}

	analysis := NewAnalysisService(obs)
	history := NewHistoryService(readings, opts.History, log, obs)
	alerts := NewAlertService(repos.Alerts, opts.Alerts, log, obs, opts.Notifiers...)
	detection := NewDetectionService(opts.Detection)
	pipeline := NewPipelineService(analysis, history, alerts, PipelineOptions{
		LogHistory: opts.History.Enabled,
		SendAlerts: opts.Alerts.Enabled,
	}, log)

	return &Service{
		Authorization: NewAuthService(repos.Auth, opts.Auth),
		Analysis:      analysis,
		History:       history,
		Alerts:        alerts,
		Detection:     detection,
		Pipeline:      pipeline,
		Scanner:       NewScannerService(detection, pipeline, log),
	}
}
