package metrics

import (
	"net/http"
	"strconv"
	"time"

	dr "disaster_response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "disaster_response"

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	batchesTotal      prometheus.Counter
	readingsTotal     *prometheus.CounterVec
	sinkTotal         *prometheus.CounterVec
	alertsTotal       *prometheus.CounterVec
	notifyTotal       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_analyzed_total",
			Help:      "Total sensor batches classified.",
		}),
		readingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_classified_total",
			Help:      "Total readings classified by risk level.",
		}, []string{"risk_level"}),
		sinkTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_writes_total",
			Help:      "History sink write attempts by status.",
		}, []string{"status"}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alerts generated by severity.",
		}, []string{"severity"}),
		notifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifier deliveries by notifier and outcome.",
		}, []string{"notifier", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.batchesTotal,
		m.readingsTotal,
		m.sinkTotal,
		m.alertsTotal,
		m.notifyTotal,
	)

	for _, l := range []dr.RiskLevel{dr.RiskLow, dr.RiskMedium, dr.RiskHigh} {
		m.readingsTotal.WithLabelValues(string(l))
	}
	return m
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveBatch(res dr.BatchResult) {
	if m == nil {
		return
	}
	m.batchesTotal.Inc()
	for _, v := range res.Analysis {
		m.readingsTotal.WithLabelValues(string(v.RiskLevel)).Inc()
	}
}

func (m *Metrics) ObserveSink(status string) {
	if m == nil {
		return
	}
	m.sinkTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveAlerts(alerts []dr.Alert) {
	if m == nil {
		return
	}
	for _, a := range alerts {
		m.alertsTotal.WithLabelValues(a.Severity).Inc()
	}
}

func (m *Metrics) ObserveNotify(notifier string, err error) {
	if m == nil {
		return
	}
	outcome := "delivered"
	if err != nil {
		outcome = "failed"
	}
	m.notifyTotal.WithLabelValues(notifier, outcome).Inc()
}
