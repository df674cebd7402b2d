package disaster_response

import "time"

// RiskLevel is an ordered severity tier: Low < Medium < High.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Rank orders risk levels; unknown values rank below Low.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

// MaxRisk returns the more severe of a and b.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// SensorReading is one sensor sample submitted for classification.
type SensorReading struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"` // °C
	SmokeLevel  float64 `json:"smoke_level"` // %
	Timestamp   string  `json:"timestamp"`   // ISO-8601
}

// RiskVerdict is the classification of a single reading.
type RiskVerdict struct {
	Location    string    `json:"location"`
	Timestamp   string    `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	SmokeLevel  float64   `json:"smoke_level"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Reasons     []string  `json:"reasons"`
}

// BatchResult is the joint evaluation of a batch of readings.
type BatchResult struct {
	OverallRiskLevel RiskLevel     `json:"overall_risk_level"`
	TotalReadings    int           `json:"total_readings"`
	Analysis         []RiskVerdict `json:"analysis"`
	Timestamp        string        `json:"timestamp"`
}

// DetectionRecord is one row written to the historical-data sink.
type DetectionRecord struct {
	DetectionID        string    `json:"detection_id"`
	Location           string    `json:"location"`
	Temperature        float64   `json:"temperature"`
	SmokeLevel         float64   `json:"smoke_level"`
	RiskLevel          RiskLevel `json:"risk_level"`
	SensorTimestamp    time.Time `json:"sensor_timestamp"`
	ProcessedTimestamp time.Time `json:"processed_timestamp"`
	Source             string    `json:"source"`
}

// Alert is a single notification derived from a verdict.
type Alert struct {
	AlertID        string    `json:"alert_id"`
	Message        string    `json:"message"`
	Severity       string    `json:"severity"` // CRITICAL | WARNING | INFO
	RiskLevel      RiskLevel `json:"risk_level"`
	Location       string    `json:"location"`
	Timestamp      string    `json:"timestamp"`
	ActionRequired bool      `json:"action_required"`
	GeneratedAt    time.Time `json:"alert_generated_at"`
}

// AlertSummary counts alerts by severity.
type AlertSummary struct {
	TotalAlerts    int `json:"total_alerts"`
	CriticalAlerts int `json:"critical_alerts"`
	WarningAlerts  int `json:"warning_alerts"`
	InfoAlerts     int `json:"info_alerts"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
}
