package risk

import (
	"bytes"
	"encoding/json"

	dr "disaster_response"
)

const sensorDataKey = "sensor_data"

var jsonNull = []byte("null")

// ParseRequest decodes a `{"sensor_data": ...}` document.
func ParseRequest(body []byte) ([]dr.SensorReading, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, missingInput("request body is empty")
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, invalidFormat("request body must be a JSON object: %v", err)
	}
	return ParseSensorData(doc[sensorDataKey])
}

// ParsePayload accepts either a `{"sensor_data": ...}` document or bare
// sensor data (a reading object or an array of readings).
func ParsePayload(body []byte) ([]dr.SensorReading, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, invalidFormat("payload is not valid JSON: %v", err)
		}
		if raw, ok := doc[sensorDataKey]; ok {
			return ParseSensorData(raw)
		}
	}
	return ParseSensorData(trimmed)
}

// ParseSensorData decodes a single reading or an array of readings. A single
// object is returned as a one-element batch.
func ParseSensorData(raw json.RawMessage) ([]dr.SensorReading, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil, missingInput("No sensor data provided")
	}

	var items []json.RawMessage
	switch raw[0] {
	case '{':
		items = []json.RawMessage{raw}
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, invalidFormat("sensor_data is not a valid array: %v", err)
		}
	default:
		return nil, invalidFormat("sensor_data must be an object or an array of objects")
	}

	readings := make([]dr.SensorReading, 0, len(items))
	for i, item := range items {
		r, err := parseReading(i, item)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, nil
}

func parseReading(idx int, raw json.RawMessage) (dr.SensorReading, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return dr.SensorReading{}, invalidFormat("reading %d must be a JSON object", idx)
	}

	temp, err := numberField(idx, fields, "temperature")
	if err != nil {
		return dr.SensorReading{}, err
	}
	smoke, err := numberField(idx, fields, "smoke_level")
	if err != nil {
		return dr.SensorReading{}, err
	}
	location, err := stringField(idx, fields, "location")
	if err != nil {
		return dr.SensorReading{}, err
	}
	ts, err := stringField(idx, fields, "timestamp")
	if err != nil {
		return dr.SensorReading{}, err
	}

	if location == "" {
		location = DefaultLocation
	}
	if ts == "" {
		ts = Now()
	}
	return dr.SensorReading{
		Location:    location,
		Temperature: temp,
		SmokeLevel:  smoke,
		Timestamp:   ts,
	}, nil
}

func numberField(idx int, fields map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return 0, invalidFormat("reading %d: %s is required", idx, key)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, invalidFormat("reading %d: %s must be numeric", idx, key)
	}
	return f, nil
}

// stringField returns "" when the key is absent or null.
func stringField(idx int, fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", invalidFormat("reading %d: %s must be a string", idx, key)
	}
	return s, nil
}
