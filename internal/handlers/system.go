package handlers

import (
	"net/http"

	"disaster_response/internal/risk"
	"disaster_response/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "Disaster Response Backend"
	serviceVersion = "1.0.0"
	statusHealthy  = "OK"
	statusRunning  = "running"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Service info
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *Handler) root(c *gin.Context) {
	var steps []string
	if h.services.Pipeline != nil {
		steps = h.services.Pipeline.StepNames()
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Disaster Response Risk Service",
		"version":   serviceVersion,
		"status":    statusRunning,
		"pipeline":  steps,
		"timestamp": risk.Now(),
	})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  statusHealthy,
		"service": serviceName,
	})
}

type alertsStatus struct {
	Enabled   bool     `json:"enabled"`
	Notifiers []string `json:"notifiers"`
}

// @Summary      Component status
// @Description  Reports the history sink, alerting, detection and MQTT configuration.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /status [get]
func (h *Handler) status(c *gin.Context) {
	resp := gin.H{
		"service":   serviceName,
		"mqtt":      h.mqtt,
		"timestamp": risk.Now(),
	}
	if h.services.History != nil {
		resp["history"] = h.services.History.Info()
	} else {
		resp["history"] = service.SinkInfo{}
	}
	if h.services.Alerts != nil {
		resp["alerts"] = alertsStatus{Enabled: h.services.Alerts.Enabled(), Notifiers: h.services.Alerts.Notifiers()}
	} else {
		resp["alerts"] = alertsStatus{Notifiers: []string{}}
	}
	if h.services.Detection != nil {
		resp["detection"] = gin.H{"data_dir": h.services.Detection.DataDir()}
	}
	c.JSON(http.StatusOK, resp)
}
