package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"disaster_response/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusCleared = "cleared"

	errCountInvalid = "invalid 'count'; use a positive integer"
	errAlertsLoad   = "failed to load alerts"
	errAlertsClear  = "failed to clear alerts"
)

// @Summary      Recent alerts
// @Description  Most recent alerts, oldest first.
// @Tags         alerts
// @Produce      json
// @Param        count  query   int  false  "Number of alerts (default 10, max 100)"  example(10)
// @Success      200   {object}  map[string]interface{}  "count, alerts"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/alerts [get]
// @Security     BearerAuth
func (h *Handler) getAlerts(c *gin.Context) {
	count, ok := parseAlertCount(c.Query("count"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCountInvalid})
		return
	}

	alerts, err := h.services.Alerts.Recent(c.Request.Context(), count)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errAlertsLoad, "alerts_recent_failed", err, "count", count)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// @Summary      Clear alert history
// @Tags         alerts
// @Produce      json
// @Success      200   {object}  map[string]interface{}  "status, removed"
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/alerts [delete]
// @Security     BearerAuth
func (h *Handler) clearAlerts(c *gin.Context) {
	n, err := h.services.Alerts.Clear(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errAlertsClear, "alerts_clear_failed", err)
		return
	}
	if h.log != nil {
		h.log.Infow("alerts_cleared", "removed", n, "user_id", c.GetInt(ctxUserID))
	}
	c.JSON(http.StatusOK, gin.H{"status": statusCleared, "removed": n})
}

// parseAlertCount reads ?count=. Empty means the service default (0); values
// above service.MaxRecentAlerts are capped.
func parseAlertCount(qs string) (int, bool) {
	if qs == "" {
		return 0, true
	}
	v, err := strconv.Atoi(qs)
	if err != nil {
		// out-of-range digits still mean "as many as allowed"
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && !strings.HasPrefix(qs, "-") {
			return service.MaxRecentAlerts, true
		}
		return 0, false
	}
	if v <= 0 {
		return 0, false
	}
	return min(v, service.MaxRecentAlerts), true
}
