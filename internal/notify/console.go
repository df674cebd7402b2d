package notify

import (
	"context"

	dr "disaster_response"
	"disaster_response/internal/logger"
)

const consoleName = "console"

// Console writes every alert to the service log.
type Console struct {
	log *logger.Logger
}

func NewConsole(log *logger.Logger) *Console {
	if log == nil {
		log = logger.Nop()
	}
	return &Console{log: log}
}

func (c *Console) Name() string { return consoleName }

func (c *Console) Notify(_ context.Context, alerts []dr.Alert) error {
	for _, a := range alerts {
		kv := []interface{}{
			"alert_id", a.AlertID,
			"severity", a.Severity,
			"location", a.Location,
			"risk_level", a.RiskLevel,
			"action_required", a.ActionRequired,
			"timestamp", a.Timestamp,
		}
		if a.Severity == "CRITICAL" {
			c.log.Warnw(a.Message, kv...)
			continue
		}
		c.log.Infow(a.Message, kv...)
	}
	return nil
}
