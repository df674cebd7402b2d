package service

import (
	"context"
	"fmt"
	"time"

	dr "disaster_response"
	"disaster_response/internal/logger"
	"disaster_response/internal/repository"
	"disaster_response/internal/risk"

	"github.com/google/uuid"
)

const (
	SeverityCritical = "CRITICAL"
	SeverityWarning  = "WARNING"
	SeverityInfo     = "INFO"

	OverallLocation    = "Overall Assessment"
	DefaultRecentCount = 10

	alertStatusProcessed = "processed"
	deliveryDelivered    = "delivered"
	deliveryFailed       = "failed"
)

// Notifier delivers alerts to an external channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, alerts []dr.Alert) error
}

type AlertOptions struct {
	Enabled     bool
	RecentLimit int
}

// Delivery is the outcome of one notifier.
type Delivery struct {
	Notifier string `json:"notifier"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// AlertReport summarises one alert run.
type AlertReport struct {
	Status             string          `json:"alert_status"`
	Alerts             []dr.Alert      `json:"alerts_triggered"`
	Summary            dr.AlertSummary `json:"alert_summary"`
	InputRiskLevel     dr.RiskLevel    `json:"input_risk_level"`
	LocationsProcessed int             `json:"total_locations_processed"`
	Deliveries         []Delivery      `json:"deliveries,omitempty"`
	HistoryError       string          `json:"history_error,omitempty"`
	Timestamp          string          `json:"timestamp"`
}

type AlertService struct {
	repo      repository.AlertRepo
	opts      AlertOptions
	notifiers []Notifier
	log       *logger.Logger
	obs       Observer
	now       func() time.Time
	newID     func() string
}

func NewAlertService(repo repository.AlertRepo, opts AlertOptions, log *logger.Logger, obs Observer, notifiers ...Notifier) *AlertService {
	if log == nil {
		log = logger.Nop()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentCount
	}
	return &AlertService{
		repo:      repo,
		opts:      opts,
		notifiers: notifiers,
		log:       log,
		obs:       obs,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Process raises one alert for the overall assessment and one per verdict,
// stores them and fans them out to the notifiers.
func (s *AlertService) Process(ctx context.Context, batch dr.BatchResult) AlertReport {
	ts := batch.Timestamp
	if ts == "" {
		ts = risk.Now()
	}

	alerts := make([]dr.Alert, 0, len(batch.Analysis)+1)
	var summary dr.AlertSummary

	add := func(level dr.RiskLevel, location string) {
		a, ok := s.newAlert(level, location, ts)
		if !ok {
			return
		}
		alerts = append(alerts, a)
		countAlert(&summary, a.Severity)
	}
	add(batch.OverallRiskLevel, OverallLocation)
	for _, v := range batch.Analysis {
		add(v.RiskLevel, v.Location)
	}

	report := AlertReport{
		Status:             alertStatusProcessed,
		Alerts:             alerts,
		Summary:            summary,
		InputRiskLevel:     batch.OverallRiskLevel,
		LocationsProcessed: len(batch.Analysis),
		Timestamp:          risk.Now(),
	}

	if s.repo != nil {
		if err := s.repo.Append(ctx, alerts); err != nil {
			s.log.Errorw("alert_history_append_failed", "alerts", len(alerts), "err", err)
			report.HistoryError = err.Error()
		}
	}
	s.obs.ObserveAlerts(alerts)
	report.Deliveries = s.deliver(ctx, alerts)
	return report
}

func (s *AlertService) newAlert(level dr.RiskLevel, location, ts string) (dr.Alert, bool) {
	a := dr.Alert{
		AlertID:     s.newID(),
		RiskLevel:   level,
		Location:    location,
		Timestamp:   ts,
		GeneratedAt: s.now().UTC(),
	}
	switch level {
	case dr.RiskHigh:
		a.Severity = SeverityCritical
		a.Message = fmt.Sprintf("ALERT: High risk detected at %s", location)
		a.ActionRequired = true
	case dr.RiskMedium:
		a.Severity = SeverityWarning
		a.Message = fmt.Sprintf("WARNING: Medium risk detected at %s", location)
		a.ActionRequired = true
	case dr.RiskLow:
		a.Severity = SeverityInfo
		a.Message = fmt.Sprintf("INFO: Low risk monitoring at %s", location)
	default:
		return dr.Alert{}, false
	}
	return a, true
}

func countAlert(s *dr.AlertSummary, severity string) {
	s.TotalAlerts++
	switch severity {
	case SeverityCritical:
		s.CriticalAlerts++
	case SeverityWarning:
		s.WarningAlerts++
	case SeverityInfo:
		s.InfoAlerts++
	}
}

// deliver is best effort; failures are logged and reported, never returned.
func (s *AlertService) deliver(ctx context.Context, alerts []dr.Alert) []Delivery {
	if len(s.notifiers) == 0 || len(alerts) == 0 {
		return nil
	}
	out := make([]Delivery, 0, len(s.notifiers))
	for _, n := range s.notifiers {
		err := n.Notify(ctx, alerts)
		s.obs.ObserveNotify(n.Name(), err)
		if err != nil {
			s.log.Warnw("alert_notify_failed", "notifier", n.Name(), "err", err)
			out = append(out, Delivery{Notifier: n.Name(), Status: deliveryFailed, Error: err.Error()})
			continue
		}
		out = append(out, Delivery{Notifier: n.Name(), Status: deliveryDelivered})
	}
	return out
}

// MaxRecentAlerts bounds a single Recent call.
const MaxRecentAlerts = repository.DefaultListLimit

// Recent returns up to count alerts, oldest first. count <= 0 uses the configured
// default; larger counts are capped at MaxRecentAlerts.
func (s *AlertService) Recent(ctx context.Context, count int) ([]dr.Alert, error) {
	if count <= 0 {
		count = s.opts.RecentLimit
	}
	if count > MaxRecentAlerts {
		count = MaxRecentAlerts
	}
	if s.repo == nil {
		return []dr.Alert{}, nil
	}
	return s.repo.Recent(ctx, count)
}

func (s *AlertService) Clear(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	n, err := s.repo.Clear(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Infow("alert_history_cleared", "removed", n)
	return n, nil
}

func (s *AlertService) Enabled() bool { return s.opts.Enabled }

func (s *AlertService) Notifiers() []string {
	names := make([]string, 0, len(s.notifiers))
	for _, n := range s.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// RecommendedActions lists the response steps for a risk tier.
func RecommendedActions(level dr.RiskLevel) []string {
	switch level {
	case dr.RiskHigh:
		return []string{
			"Initiate immediate evacuation of affected areas",
			"Notify emergency services",
			"Dispatch response teams to high-risk locations",
		}
	case dr.RiskMedium:
		return []string{
			"Increase monitoring frequency",
			"Conduct on-site inspection",
			"Prepare evacuation routes",
		}
	default:
		return []string{"Continue routine monitoring"}
	}
}

// Priority maps a risk tier to a dispatch priority.
func Priority(level dr.RiskLevel) string {
	switch level {
	case dr.RiskHigh:
		return "CRITICAL"
	case dr.RiskMedium:
		return "HIGH"
	default:
		return "NORMAL"
	}
}
