package metrics

import (
	"time"

	"mycv/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
)

var _ service.AuthRecorder = (*AuthMetrics)(nil)

// AuthMetrics tracks signup/signin outcomes and key derivation cost.
// It implements service.AuthRecorder.
type AuthMetrics struct {
	Outcomes          *prometheus.CounterVec
	DerivationSeconds prometheus.Histogram
	DerivationsActive prometheus.Gauge
}

// NewAuthMetrics creates and registers credential metrics on the given registry.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	m := &AuthMetrics{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "operations_total",
			Help:      "Signup and signin attempts by outcome.",
		}, []string{"operation", "outcome"}),
		DerivationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "key_derivation_seconds",
			Help:      "Time spent deriving one password key.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		DerivationsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "key_derivations_in_flight",
			Help:      "Key derivations currently holding a worker.",
		}),
	}

	reg.MustRegister(m.Outcomes, m.DerivationSeconds, m.DerivationsActive)

	return m
}

func (m *AuthMetrics) RecordOutcome(operation, outcome string) {
	m.Outcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *AuthMetrics) ObserveDerivation(d time.Duration) {
	m.DerivationSeconds.Observe(d.Seconds())
}

func (m *AuthMetrics) DerivationStarted() {
	m.DerivationsActive.Inc()
}

func (m *AuthMetrics) DerivationFinished() {
	m.DerivationsActive.Dec()
}
