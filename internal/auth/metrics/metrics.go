package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	LoginDuration   prometheus.Histogram
	TokenRejections prometheus.Counter
	AdminDenials    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecover_auth_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		LoginDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifecover_auth_login_duration_seconds",
			Help:    "Time spent handling a login, including password comparison",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		TokenRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "lifecover_auth_token_rejections_total",
			Help: "Total number of bearer tokens rejected during verification",
		}),
		AdminDenials: factory.NewCounter(prometheus.CounterOpts{
			Name: "lifecover_auth_admin_denials_total",
			Help: "Total number of authenticated requests denied admin access",
		}),
	}
}

func (m *Metrics) IncLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLoginDuration(seconds float64) {
	if m == nil {
		return
	}
	m.LoginDuration.Observe(seconds)
}

func (m *Metrics) IncTokenRejections() {
	if m == nil {
		return
	}
	m.TokenRejections.Inc()
}

func (m *Metrics) IncAdminDenials() {
	if m == nil {
		return
	}
	m.AdminDenials.Inc()
}
