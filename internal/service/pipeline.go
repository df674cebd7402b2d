package service

import (
	"context"
	"fmt"

	dr "disaster_response"
	"disaster_response/internal/logger"
	"disaster_response/internal/risk"
)

const (
	StepAnalyze = "analyze"
	StepHistory = "history"
	StepAlerts  = "alerts"

	StepCompleted = "completed"
	StepSkipped   = "skipped"
	StepFailed    = "failed"

	PipelineCompleted           = "completed"
	PipelineCompletedWithErrors = "completed_with_errors"
)

// PipelineOptions are fixed when the pipeline is built.
type PipelineOptions struct {
	LogHistory bool
	SendAlerts bool
}

type StepResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type PipelineResult struct {
	PipelineStatus     string         `json:"pipeline_status"`
	TotalSteps         int            `json:"total_steps"`
	CompletedSteps     int            `json:"completed_steps"`
	Steps              []StepResult   `json:"steps"`
	Source             string         `json:"source"`
	Analysis           dr.BatchResult `json:"analysis"`
	RiskLevel          dr.RiskLevel   `json:"risk_level"`
	Priority           string         `json:"priority"`
	History            *SinkStatus    `json:"history,omitempty"`
	Alerts             *AlertReport   `json:"alerts,omitempty"`
	RecommendedActions []string       `json:"recommended_actions"`
	Timestamp          string         `json:"timestamp"`
}

// step reads the analysis and fills in its part of the result.
type step struct {
	name    string
	enabled bool
	run     func(ctx context.Context, res *PipelineResult) error
}

type PipelineService struct {
	analysis Analysis
	steps    []step
	log      *logger.Logger
}

func NewPipelineService(analysis Analysis, history History, alerts Alerts, opts PipelineOptions, log *logger.Logger) *PipelineService {
	if log == nil {
		log = logger.Nop()
	}
	p := &PipelineService{analysis: analysis, log: log}
	p.steps = []step{
		{
			name:    StepHistory,
			enabled: opts.LogHistory && history != nil,
			run: func(ctx context.Context, res *PipelineResult) error {
				st := history.Record(ctx, res.Analysis.Analysis, res.Source)
				res.History = &st
				if st.Status == SinkError {
					return fmt.Errorf("history sink: %s", st.Error)
				}
				return nil
			},
		},
		{
			name:    StepAlerts,
			enabled: opts.SendAlerts && alerts != nil,
			run: func(ctx context.Context, res *PipelineResult) error {
				report := alerts.Process(ctx, res.Analysis)
				res.Alerts = &report
				if report.HistoryError != "" {
					return fmt.Errorf("alert history: %s", report.HistoryError)
				}
				return nil
			},
		},
	}
	return p
}

// StepNames lists the steps in execution order.
func (p *PipelineService) StepNames() []string {
	names := []string{StepAnalyze}
	for _, s := range p.steps {
		names = append(names, s.name)
	}
	return names
}

// Run classifies readings, then runs every enabled step. Only a failure to classify
// aborts the run; later step failures are recorded on the result.
func (p *PipelineService) Run(ctx context.Context, readings []dr.SensorReading, source string) (PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return PipelineResult{}, fmt.Errorf("pipeline canceled before analysis: %w", err)
	}

	res := PipelineResult{
		TotalSteps: len(p.steps) + 1,
		Source:     source,
		Steps:      make([]StepResult, 0, len(p.steps)+1),
	}
	res.Analysis = p.analysis.Analyze(readings)
	res.RiskLevel = res.Analysis.OverallRiskLevel
	res.Priority = Priority(res.RiskLevel)
	res.RecommendedActions = RecommendedActions(res.RiskLevel)
	res.Steps = append(res.Steps, StepResult{Name: StepAnalyze, Status: StepCompleted})
	res.CompletedSteps = 1

	failed := false
	for _, s := range p.steps {
		if !s.enabled {
			res.Steps = append(res.Steps, StepResult{Name: s.name, Status: StepSkipped})
			continue
		}
		if err := s.run(ctx, &res); err != nil {
			failed = true
			p.log.Warnw("pipeline_step_failed", "step", s.name, "source", source, "err", err)
			res.Steps = append(res.Steps, StepResult{Name: s.name, Status: StepFailed, Error: err.Error()})
			continue
		}
		res.CompletedSteps++
		res.Steps = append(res.Steps, StepResult{Name: s.name, Status: StepCompleted})
	}

	res.PipelineStatus = PipelineCompleted
	if failed {
		res.PipelineStatus = PipelineCompletedWithErrors
	}
	res.Timestamp = risk.Now()

	p.log.Infow("pipeline_completed",
		"source", source,
		"readings", res.Analysis.TotalReadings,
		"risk_level", res.RiskLevel,
		"priority", res.Priority,
		"status", res.PipelineStatus,
	)
	return res, nil
}
