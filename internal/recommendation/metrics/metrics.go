package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the recommendation module.
type Metrics struct {
	// Recommendations by product type and risk tolerance
	Recommendations *prometheus.CounterVec

	// Coverage handed out, in whole currency units
	Coverage prometheus.Histogram

	// Submit latency including persistence
	SubmitLatency prometheus.Histogram

	// Persistence failures
	StoreFailures prometheus.Counter
}

// New creates a new Metrics instance with all recommendation metrics registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Recommendations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecover_recommendations_total",
			Help: "Total recommendations produced by product type and risk tolerance",
		}, []string{"product", "risk_tolerance"}),

		Coverage: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifecover_recommendation_coverage",
			Help:    "Recommended coverage amounts",
			Buckets: []float64{50_000, 100_000, 250_000, 500_000, 1_000_000, 2_500_000, 5_000_000},
		}),

		SubmitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifecover_recommendation_submit_duration_seconds",
			Help:    "Duration of recommendation submission including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		StoreFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "lifecover_recommendation_store_failures_total",
			Help: "Total failures persisting recommendations",
		}),
	}
}

// IncrementRecommendation records a produced recommendation.
func (m *Metrics) IncrementRecommendation(product, risk string, coverage int64) {
	if m != nil {
		m.Recommendations.WithLabelValues(product, risk).Inc()
		m.Coverage.Observe(float64(coverage))
	}
}

// ObserveSubmitLatency records the total submit duration.
func (m *Metrics) ObserveSubmitLatency(d time.Duration) {
	if m != nil {
		m.SubmitLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementStoreFailure() {
	if m != nil {
		m.StoreFailures.Inc()
	}
}
