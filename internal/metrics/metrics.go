package metrics

import (
	"net/http"
	"strconv"
	"time"

	"tiyende/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	httpReqCnt    *prometheus.CounterVec
	httpDur       *prometheus.HistogramVec
	httpInfl      *prometheus.GaugeVec
	loginCnt      *prometheus.CounterVec
	sessionCnt    *prometheus.CounterVec
	ticketCnt     *prometheus.CounterVec
	streamClients prometheus.Gauge
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	loginCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "login_attempts_total"}, []string{"result"})
	sessionCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "session_events_total"}, []string{"event"})
	ticketCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "tickets_created_total"}, []string{"status"})
	streamClients := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: "activity_stream_clients"})
	r.MustRegister(loginCnt, sessionCnt, ticketCnt, streamClients)

	return &Metrics{
		registry:      r,
		httpReqCnt:    httpReqCnt,
		httpDur:       httpDur,
		httpInfl:      httpInfl,
		loginCnt:      loginCnt,
		sessionCnt:    sessionCnt,
		ticketCnt:     ticketCnt,
		streamClients: streamClients,
	}
}

// LoginAttempt counts a login by result: success, invalid, inactive or limited.
func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginCnt.WithLabelValues(result).Inc()
}

// SessionEvent counts created, refreshed, ended and rejected sessions.
func (m *Metrics) SessionEvent(event string) {
	if m == nil {
		return
	}
	m.sessionCnt.WithLabelValues(event).Inc()
}

func (m *Metrics) TicketCreated(status string) {
	if m == nil {
		return
	}
	m.ticketCnt.WithLabelValues(status).Inc()
}

func (m *Metrics) StreamClients(delta int) {
	if m == nil {
		return
	}
	m.streamClients.Add(float64(delta))
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
