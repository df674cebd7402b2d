package handlers

import (
	"context"
	"net/http"
	"sync"

	dr "disaster_response"
	"disaster_response/internal/risk"
	"disaster_response/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockAnalysis delegates to the real classifier and remembers its input.
type mockAnalysis struct {
	calls     int
	lastSeen  []dr.SensorReading
	panicWith any
}

func (m *mockAnalysis) Analyze(rs []dr.SensorReading) dr.BatchResult {
	m.calls++
	m.lastSeen = rs
	if m.panicWith != nil {
		panic(m.panicWith)
	}
	return risk.Analyze(rs)
}

type mockHistory struct {
	info       service.SinkInfo
	records    []dr.DetectionRecord
	err        error
	lastFilter service.HistoryFilter
}

func (m *mockHistory) Record(context.Context, []dr.RiskVerdict, string) service.SinkStatus {
	return service.SinkStatus{Status: service.SinkSuccess}
}
func (m *mockHistory) Query(_ context.Context, f service.HistoryFilter) ([]dr.DetectionRecord, error) {
	m.lastFilter = f
	return m.records, m.err
}
func (m *mockHistory) Info() service.SinkInfo { return m.info }

type mockAlerts struct {
	enabled   bool
	notifiers []string
	recent    []dr.Alert
	recentErr error
	cleared   int64
	clearErr  error

	mu        sync.Mutex
	lastCount int
}

func (m *mockAlerts) Process(context.Context, dr.BatchResult) service.AlertReport {
	return service.AlertReport{}
}
func (m *mockAlerts) Recent(_ context.Context, count int) ([]dr.Alert, error) {
	m.mu.Lock()
	m.lastCount = count
	m.mu.Unlock()
	return m.recent, m.recentErr
}

// requestedCount is safe to call while a stream handler is still running.
func (m *mockAlerts) requestedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCount
}
func (m *mockAlerts) Clear(context.Context) (int64, error) { return m.cleared, m.clearErr }
func (m *mockAlerts) Notifiers() []string                  { return m.notifiers }
func (m *mockAlerts) Enabled() bool                        { return m.enabled }

type mockDetection struct {
	readings    []dr.SensorReading
	source      string
	err         error
	lastPath    string
	lastPattern string
	loads       int
}

func (m *mockDetection) Load(filePath, pattern string) ([]dr.SensorReading, string, error) {
	m.loads++
	m.lastPath = filePath
	m.lastPattern = pattern
	return m.readings, m.source, m.err
}
func (m *mockDetection) Files(string) ([]service.DataFile, error) { return nil, nil }
func (m *mockDetection) DataDir() string                          { return "data" }

type mockPipeline struct {
	err        error
	lastSource string
	lastInput  []dr.SensorReading
}

func (m *mockPipeline) Run(_ context.Context, rs []dr.SensorReading, source string) (service.PipelineResult, error) {
	m.lastSource = source
	m.lastInput = rs
	if m.err != nil {
		return service.PipelineResult{}, m.err
	}
	batch := risk.Analyze(rs)
	return service.PipelineResult{
		PipelineStatus: service.PipelineCompleted,
		Source:         source,
		Analysis:       batch,
		RiskLevel:      batch.OverallRiskLevel,
		Priority:       service.Priority(batch.OverallRiskLevel),
	}, nil
}
func (m *mockPipeline) StepNames() []string {
	return []string{service.StepAnalyze, service.StepHistory, service.StepAlerts}
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
