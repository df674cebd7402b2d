package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	dr "disaster_response"
	"disaster_response/internal/risk"
	"disaster_response/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	sourceAPI = "api"

	errNoSensorData    = "No sensor data provided"
	errInvalidFormat   = "Invalid sensor data format"
	errDataNotFound    = "Sensor data not found"
	errInvalidFilePath = "Invalid file path"
	errAnalysisFailed  = "Analysis failed"
	errBodyTooLarge    = "Request body too large"

	msgUnexpectedFailure = "unexpected error while classifying readings"

	maxRequestBodyBytes = 1 << 20 // 1 MiB
)

// AnalyzeRequest documents the /analyze payload; sensor_data is a reading or an array of readings.
type AnalyzeRequest struct {
	SensorData []dr.SensorReading `json:"sensor_data"`
}

// PipelineRequest documents the /pipeline payload. Without sensor_data the
// readings are loaded from the data directory.
type PipelineRequest struct {
	SensorData []dr.SensorReading `json:"sensor_data,omitempty"`
	FilePath   string             `json:"file_path,omitempty" example:"sensors.json"`
	Pattern    string             `json:"pattern,omitempty" example:"*.json"`
}

// writeAnalysisError maps input and detection errors onto HTTP statuses.
func (h *Handler) writeAnalysisError(c *gin.Context, logKey string, err error) {
	code, msg := http.StatusInternalServerError, errAnalysisFailed
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		code, msg = http.StatusRequestEntityTooLarge, errBodyTooLarge
	case errors.Is(err, risk.ErrMissingInput):
		code, msg = http.StatusBadRequest, errNoSensorData
	case errors.Is(err, risk.ErrInvalidFormat):
		code, msg = http.StatusBadRequest, errInvalidFormat
	case errors.Is(err, service.ErrNoDataFound), errors.Is(err, service.ErrFileNotFound):
		code, msg = http.StatusNotFound, errDataNotFound
	case errors.Is(err, service.ErrPathOutsideDataDir):
		code, msg = http.StatusBadRequest, errInvalidFilePath
	}

	if h.log != nil {
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, "err", err)
		} else {
			h.log.Infow(logKey, "err", err, "status", code)
		}
	}
	c.JSON(code, gin.H{"error": msg, "message": err.Error()})
}

// limitBody caps how many request body bytes a handler may read.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// recoverAnalysis turns a panic on a classification route into the analysis error body.
func (h *Handler) recoverAnalysis(c *gin.Context, recovered any) {
	if h.log != nil {
		h.log.Errorw("analysis_panic", "path", c.FullPath(), "panic", recovered)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":   errAnalysisFailed,
		"message": msgUnexpectedFailure,
	})
}

// @Summary      Classify sensor readings
// @Description  Accepts a single reading or an array under sensor_data and returns the risk assessment.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      AnalyzeRequest  true  "Sensor readings"
// @Success      200   {object}  disaster_response.BatchResult
// @Failure      400   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /analyze [post]
func (h *Handler) analyze(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.writeAnalysisError(c, "analyze_read_body_failed", err)
		return
	}
	readings, err := risk.ParseRequest(body)
	if err != nil {
		h.writeAnalysisError(c, "analyze_bad_request", err)
		return
	}
	c.JSON(http.StatusOK, h.services.Analysis.Analyze(readings))
}

// @Summary      Run the detection pipeline
// @Description  Classifies readings, logs them to the history sink and raises alerts.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      PipelineRequest  false  "Readings or a data file selector"
// @Success      200   {object}  service.PipelineResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /pipeline [post]
func (h *Handler) runPipeline(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.writeAnalysisError(c, "pipeline_read_body_failed", err)
		return
	}

	var req map[string]json.RawMessage
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeAnalysisError(c, "pipeline_bad_request", risk.ErrInvalidFormat)
			return
		}
	}

	var (
		readings []dr.SensorReading
		source   = sourceAPI
	)
	if raw, ok := req["sensor_data"]; ok {
		readings, err = risk.ParseSensorData(raw)
	} else {
		readings, source, err = h.loadFromDataDir(req)
	}
	if err != nil {
		h.writeAnalysisError(c, "pipeline_input_rejected", err)
		return
	}

	res, err := h.services.Pipeline.Run(c.Request.Context(), readings, source)
	if err != nil {
		h.writeAnalysisError(c, "pipeline_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) loadFromDataDir(req map[string]json.RawMessage) ([]dr.SensorReading, string, error) {
	filePath, err := stringField(req, "file_path")
	if err != nil {
		return nil, "", err
	}
	pattern, err := stringField(req, "pattern")
	if err != nil {
		return nil, "", err
	}
	return h.services.Detection.Load(filePath, pattern)
}

// stringField returns m[key] as a string; absent or null is "".
func stringField(m map[string]json.RawMessage, key string) (string, error) {
	var s string
	raw, ok := m[key]
	if !ok {
		return "", nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &risk.InputError{Kind: risk.KindInvalidFormat, Message: key + " must be a string"}
	}
	return s, nil
}
