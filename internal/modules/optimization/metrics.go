package optimization

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsPrefix = "budget_"

var solveDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

// Metrics records optimizer telemetry in Prometheus.
type Metrics struct {
	optimizations *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
}

// NewMetrics creates the optimizer collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricsPrefix + "optimizations_total",
			Help: "Total number of budget optimizations by mode and outcome.",
		}, []string{"mode", "status"}),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricsPrefix + "solve_duration_seconds",
			Help:    "Histogram of solver wall-clock time in seconds.",
			Buckets: solveDurationBuckets,
		}, []string{"mode"}),
	}

	for _, c := range []prometheus.Collector{m.optimizations, m.solveDuration} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one finished optimization. Safe on a nil receiver.
func (m *Metrics) Observe(mode Mode, status Status, solveTime time.Duration) {
	if m == nil {
		return
	}
	m.optimizations.WithLabelValues(mode.String(), string(status)).Inc()
	m.solveDuration.WithLabelValues(mode.String()).Observe(solveTime.Seconds())
}
