package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	dr "disaster_response"
	"disaster_response/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_negative", "/ws?interval=-1s", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"invalid_interval_falls_back_to_ms", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

func dialWS(t *testing.T, handler http.Handler, query url.Values) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, resp, err := dialer.Dial(u.String(), nil)
	if conn != nil {
		t.Cleanup(func() { _ = conn.Close() })
	}
	return conn, resp, err
}

// dialAlertStream serves wsConnect without the auth guard.
func dialAlertStream(t *testing.T, s *service.Service, query url.Values) *websocket.Conn {
	t.Helper()
	r := gin.New()
	r.GET("/ws", NewHandler(s, nil).wsConnect)
	conn, _, err := dialWS(t, r, query)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

func TestWebSocket_AlertStream_InitialAndPeriodic(t *testing.T) {
	alerts := &mockAlerts{recent: []dr.Alert{
		{AlertID: "a1", Message: "ALERT: High risk detected at Zone B", Severity: "CRITICAL", Location: "Zone B", RiskLevel: dr.RiskHigh},
	}}
	conn := dialAlertStream(t, &service.Service{Alerts: alerts}, url.Values{"interval_ms": {"20"}})

	type envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != wsTypeAlerts {
		t.Fatalf("bad envelope: %+v", env)
	}
	var got []dr.Alert
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("unmarshal alerts: %v", err)
	}
	if len(got) != 1 || got[0].Severity != "CRITICAL" {
		t.Fatalf("unexpected alerts: %+v", got)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != wsTypeAlerts {
		t.Fatalf("expected type=alerts, got %+v", env)
	}
}

func TestWebSocket_InitialRecentError_Closes(t *testing.T) {
	conn := dialAlertStream(t, &service.Service{Alerts: &mockAlerts{recentErr: errors.New("boom")}}, url.Values{})

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}

func TestWebSocket_CapsRequestedCount(t *testing.T) {
	alerts := &mockAlerts{recent: []dr.Alert{{AlertID: "a1", Severity: "INFO"}}}
	conn := dialAlertStream(t, &service.Service{Alerts: alerts}, url.Values{"count": {"100000000000"}})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if got := alerts.requestedCount(); got != service.MaxRecentAlerts {
		t.Fatalf("Recent count=%d, want %d", got, service.MaxRecentAlerts)
	}
}

func TestWebSocket_RejectsInvalidCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, resp, err := dialWS(t, NewHandler(&service.Service{Authorization: &mockAuth{parseID: 1}, Alerts: &mockAlerts{}}, nil).InitRoutes(),
		url.Values{"token": {"good"}, "count": {"-5"}})
	if err == nil {
		t.Fatal("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 handshake response, got %+v", resp)
	}
}

func TestWebSocket_RequiresToken(t *testing.T) {
	cases := []struct {
		name     string
		query    url.Values
		parseErr error
		wantCode int
	}{
		{name: "no token", query: url.Values{}, wantCode: http.StatusUnauthorized},
		{name: "rejected token", query: url.Values{"token": {"stale"}}, parseErr: errors.New("expired"), wantCode: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			s := &service.Service{Authorization: &mockAuth{parseErr: tc.parseErr}, Alerts: &mockAlerts{}}
			_, resp, err := dialWS(t, NewHandler(s, nil).InitRoutes(), tc.query)
			if err == nil {
				t.Fatal("expected handshake to fail")
			}
			if resp == nil || resp.StatusCode != tc.wantCode {
				t.Fatalf("expected %d handshake response, got %+v", tc.wantCode, resp)
			}
		})
	}
}

func TestWebSocket_QueryTokenOpensStream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	alerts := &mockAlerts{recent: []dr.Alert{{AlertID: "a1", Severity: "WARNING"}}}
	conn, _, err := dialWS(t, NewHandler(&service.Service{Authorization: &mockAuth{parseID: 9}, Alerts: alerts}, nil).InitRoutes(),
		url.Values{"token": {"good-token"}})
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != wsTypeAlerts {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
