package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the platform
type Metrics struct {
	Submissions     *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	RelayRequests   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "invest",
				Name:      "transaction_submissions_total",
				Help:      "Deposit and withdrawal requests by outcome",
			},
			[]string{"type", "result"},
		),
		Transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "invest",
				Name:      "transaction_transitions_total",
				Help:      "Reviewer status transitions by target status and outcome",
			},
			[]string{"status", "result"},
		),
		Notifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "invest",
				Name:      "notifications_total",
				Help:      "Outbound operator notifications by outcome",
			},
			[]string{"result"},
		),
		RelayRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "invest",
				Name:      "relay_requests_total",
				Help:      "Requests to the relay endpoint by outcome",
			},
			[]string{"result"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "invest",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Middleware records the duration of every request under its route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
