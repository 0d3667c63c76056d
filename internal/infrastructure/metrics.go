package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts engine activity: how many computations of each kind ran and
// how often degenerate inputs forced an insufficient-data result. The second
// counter is the auditability hook — a population that keeps coming up empty
// is an upstream data problem, not noise.
type Metrics struct {
	ComputationsTotal   *prometheus.CounterVec
	InsufficientTotal   *prometheus.CounterVec
	InvalidInputTotal   prometheus.Counter
	EntitiesScoredTotal prometheus.Counter
}

// NewMetrics creates and registers the engine metrics on the given
// registerer. Pass prometheus.DefaultRegisterer in production, a fresh
// registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ComputationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendpulse",
			Name:      "computations_total",
			Help:      "Analytics computations run, by operation.",
		}, []string{"operation"}),
		InsufficientTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spendpulse",
			Name:      "insufficient_data_total",
			Help:      "Computations that returned an insufficient-data tag, by operation.",
		}, []string{"operation"}),
		InvalidInputTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spendpulse",
			Name:      "invalid_input_total",
			Help:      "Passes rejected for upstream contract violations.",
		}),
		EntitiesScoredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spendpulse",
			Name:      "entities_scored_total",
			Help:      "Suppliers scored across all passes.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ComputationsTotal, m.InsufficientTotal, m.InvalidInputTotal, m.EntitiesScoredTotal)
	}
	return m
}
