package traffic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// halfSteps counts every half-step applied by Runner.
	halfSteps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bimile",
		Subsystem: "sim",
		Name:      "half_steps_total",
		Help:      "Total BML half-steps applied",
	})

	// snapshots counts recorded history entries.
	snapshots = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bimile",
		Subsystem: "sim",
		Name:      "snapshots_total",
		Help:      "Total snapshots appended to simulation history",
	})

	// mobility is the mobility of the most recent snapshot.
	mobility = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bimile",
		Subsystem: "sim",
		Name:      "mobility",
		Help:      "Fraction of cars that moved per logical step in the latest snapshot",
	})
)

func recordSnapshot(halfStepCount int, m float64) {
	halfSteps.Add(float64(halfStepCount))
	snapshots.Inc()
	mobility.Set(m)
}
