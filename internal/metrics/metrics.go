package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - набор метрик приложения на собственном реестре
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	signInsTotal        *prometheus.CounterVec
	incidentsCreated    *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		signInsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sign_ins_total",
				Help: "Sign-in attempts by outcome",
			},
			[]string{"outcome"},
		),
		incidentsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incidents_created_total",
				Help: "Incident reports created",
			},
			[]string{"category", "severity"},
		),
		statusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incident_status_changes_total",
				Help: "Incident status changes by target status",
			},
			[]string{"status"},
		),
	}
}

// Middleware записывает количество и длительность HTTP запросов
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveSignIn(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.signInsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveIncidentCreated(category, severity string) {
	m.incidentsCreated.WithLabelValues(category, severity).Inc()
}

func (m *Metrics) ObserveStatusChange(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
