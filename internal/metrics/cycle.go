package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cycleStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "octra",
			Subsystem: "cycle",
			Name:      "steps_total",
			Help:      "Automation steps by name and outcome",
		},
		[]string{"step", "outcome"}, // done, skipped, failed
	)

	cycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "octra",
			Subsystem: "cycle",
			Name:      "duration_seconds",
			Help:      "Wall time of one automation cycle",
			Buckets:   []float64{60, 300, 600, 900, 1200, 1800},
		},
	)
)

// RecordStep counts one finished step.
func RecordStep(step, outcome string) {
	cycleStepsTotal.WithLabelValues(step, outcome).Inc()
}

// RecordCycle observes a finished cycle.
func RecordCycle(elapsed time.Duration) {
	cycleDuration.Observe(elapsed.Seconds())
}
