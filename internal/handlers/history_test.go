package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	dr "disaster_response"
	"disaster_response/internal/service"
)

func TestGetHistory(t *testing.T) {
	at := time.Date(2025, 1, 11, 10, 30, 0, 0, time.UTC)
	records := []dr.DetectionRecord{{
		DetectionID: "d1", Location: "Zone A", Temperature: 60, SmokeLevel: 20,
		RiskLevel: dr.RiskHigh, SensorTimestamp: at, ProcessedTimestamp: at, Source: "api",
	}}

	cases := []struct {
		name      string
		query     string
		hist      *mockHistory
		wantCode  int
		wantHours int
		wantLoc   string
	}{
		{name: "defaults", query: "", hist: &mockHistory{records: records}, wantCode: http.StatusOK, wantHours: service.DefaultHoursBack},
		{name: "filtered", query: "?location=%20zone%20&hours_back=6", hist: &mockHistory{records: records}, wantCode: http.StatusOK, wantHours: 6, wantLoc: "zone"},
		{name: "zero hours", query: "?hours_back=0", hist: &mockHistory{}, wantCode: http.StatusBadRequest},
		{name: "non numeric hours", query: "?hours_back=abc", hist: &mockHistory{}, wantCode: http.StatusBadRequest},
		{name: "widest window", query: "?hours_back=87600", hist: &mockHistory{records: records}, wantCode: http.StatusOK, wantHours: service.MaxHoursBack},
		{name: "window past the cap", query: "?hours_back=3000000", hist: &mockHistory{}, wantCode: http.StatusBadRequest},
		{name: "sink disabled", query: "", hist: &mockHistory{err: service.ErrHistoryDisabled}, wantCode: http.StatusServiceUnavailable},
		{name: "query failure", query: "", hist: &mockHistory{err: errors.New("db down")}, wantCode: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, History: tc.hist})
			w, m := getJSON(t, r, "/api/v1/history"+tc.query, authHeader("valid"))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			if tc.hist.lastFilter.HoursBack != tc.wantHours || tc.hist.lastFilter.Location != tc.wantLoc {
				t.Fatalf("filter=%+v", tc.hist.lastFilter)
			}
			if m["count"] != float64(1) {
				t.Fatalf("count=%v", m["count"])
			}
		})
	}
}

func TestGetHistory_RequiresAuth(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, History: &mockHistory{}})
	w, _ := getJSON(t, r, "/api/v1/history", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
