package snow

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts gateway requests by table, operation and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the gateway collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nowdesk_gateway_requests_total",
				Help: "Total number of requests sent to the ServiceNow Table API",
			},
			[]string{"table", "operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nowdesk_gateway_request_duration_seconds",
				Help:    "Latency of requests sent to the ServiceNow Table API",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table", "operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// observe is safe to call on a nil *Metrics.
func (m *Metrics) observe(table, op string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(table, op, label).Inc()
	m.duration.WithLabelValues(table, op).Observe(elapsed.Seconds())
}
