// Package risk classifies sensor readings into Low/Medium/High tiers.
package risk

import (
	"strconv"
	"time"

	dr "disaster_response"
)

// Thresholds is the canonical threshold table. A reading is High when either
// value strictly exceeds its High bound, otherwise Medium when either value
// strictly exceeds its Medium bound.
type Thresholds struct {
	HighTemp    float64
	HighSmoke   float64
	MediumTemp  float64
	MediumSmoke float64
}

// DefaultThresholds are the thresholds used by the service.
var DefaultThresholds = Thresholds{
	HighTemp:    50,
	HighSmoke:   70,
	MediumTemp:  35,
	MediumSmoke: 40,
}

const (
	DefaultLocation = "Unknown"
	reasonNormal    = "All readings within normal parameters"

	// timestampLayout renders UTC times with a trailing Z.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Now returns the current time as an ISO-8601 UTC string.
func Now() string {
	return time.Now().UTC().Format(timestampLayout)
}

// Classify evaluates one reading against the default thresholds.
func Classify(r dr.SensorReading) dr.RiskVerdict {
	return DefaultThresholds.Classify(r)
}

// Analyze evaluates a batch against the default thresholds.
func Analyze(readings []dr.SensorReading) dr.BatchResult {
	return DefaultThresholds.Analyze(readings)
}

// Classify evaluates one reading. High is checked before Medium; within a tier
// the temperature reason precedes the smoke reason.
func (t Thresholds) Classify(r dr.SensorReading) dr.RiskVerdict {
	v := dr.RiskVerdict{
		Location:    r.Location,
		Timestamp:   r.Timestamp,
		Temperature: r.Temperature,
		SmokeLevel:  r.SmokeLevel,
	}
	if v.Location == "" {
		v.Location = DefaultLocation
	}
	if v.Timestamp == "" {
		v.Timestamp = Now()
	}

	temp, smoke := r.Temperature, r.SmokeLevel
	switch {
	case temp > t.HighTemp || smoke > t.HighSmoke:
		v.RiskLevel = dr.RiskHigh
		if temp > t.HighTemp {
			v.Reasons = append(v.Reasons, "Critical temperature: "+formatNumber(temp)+"°C")
		}
		if smoke > t.HighSmoke {
			v.Reasons = append(v.Reasons, "Dangerous smoke level: "+formatNumber(smoke)+"%")
		}
	case temp > t.MediumTemp || smoke > t.MediumSmoke:
		v.RiskLevel = dr.RiskMedium
		if temp > t.MediumTemp {
			v.Reasons = append(v.Reasons, "Elevated temperature: "+formatNumber(temp)+"°C")
		}
		if smoke > t.MediumSmoke {
			v.Reasons = append(v.Reasons, "Elevated smoke level: "+formatNumber(smoke)+"%")
		}
	default:
		v.RiskLevel = dr.RiskLow
		v.Reasons = []string{reasonNormal}
	}
	return v
}

// Analyze classifies every reading in input order and folds the worst tier.
// An empty batch yields Low with no verdicts.
func (t Thresholds) Analyze(readings []dr.SensorReading) dr.BatchResult {
	res := dr.BatchResult{
		OverallRiskLevel: dr.RiskLow,
		TotalReadings:    len(readings),
		Analysis:         make([]dr.RiskVerdict, 0, len(readings)),
		Timestamp:        Now(),
	}
	for _, r := range readings {
		v := t.Classify(r)
		res.Analysis = append(res.Analysis, v)
		res.OverallRiskLevel = dr.MaxRisk(res.OverallRiskLevel, v.RiskLevel)
	}
	return res
}

// formatNumber renders the shortest representation: 45 -> "45", 50.5 -> "50.5".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
