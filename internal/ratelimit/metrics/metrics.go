package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers rate limit decisions and limiter health.
type Metrics struct {
	Checks        *prometheus.CounterVec
	Rejections    *prometheus.CounterVec
	LimiterErrors prometheus.Counter
	Degraded      prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecover_ratelimit_checks_total",
			Help: "Total rate limit checks by endpoint class",
		}, []string{"class"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecover_ratelimit_rejections_total",
			Help: "Total requests rejected with 429 by endpoint class",
		}, []string{"class"}),
		LimiterErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "lifecover_ratelimit_limiter_errors_total",
			Help: "Total errors from the primary rate limit store",
		}),
		Degraded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lifecover_ratelimit_degraded",
			Help: "1 while rate limiting runs on the in-memory fallback",
		}),
	}
}

func (m *Metrics) RecordCheck(class string) {
	if m == nil {
		return
	}
	m.Checks.WithLabelValues(class).Inc()
}

func (m *Metrics) RecordRejection(class string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementLimiterErrors() {
	if m == nil {
		return
	}
	m.LimiterErrors.Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
