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
	errHoursBackInvalid = "invalid 'hours_back'; use an integer between 1 and 87600"
	errHistoryDisabled  = "historical data sink is disabled"
	errHistoryLoad      = "failed to load history"
)

// @Summary      Historical readings
// @Description  Readings logged to the history sink, newest first. Location matches case-insensitively by substring.
// @Tags         history
// @Produce      json
// @Param        location    query   string  false  "Location substring"  example(zone)
// @Param        hours_back  query   int     false  "Window size in hours (default 24, max 87600)"  example(24)
// @Success      200   {object}  map[string]interface{}  "count, records"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	location := strings.TrimSpace(c.Query("location"))
	hoursBack := service.DefaultHoursBack
	if qs := c.Query("hours_back"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 || v > service.MaxHoursBack {
			c.JSON(http.StatusBadRequest, gin.H{"error": errHoursBackInvalid})
			return
		}
		hoursBack = v
	}

	records, err := h.services.History.Query(c.Request.Context(), service.HistoryFilter{
		Location:  location,
		HoursBack: hoursBack,
	})
	switch {
	case errors.Is(err, service.ErrHistoryDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errHistoryDisabled})
		return
	case errors.Is(err, service.ErrInvalidHoursBack):
		c.JSON(http.StatusBadRequest, gin.H{"error": errHoursBackInvalid})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errHistoryLoad, "history_query_failed", err,
			"location", location, "hours_back", hoursBack)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(records),
		"location":   location,
		"hours_back": hoursBack,
		"records":    records,
	})
}
