package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// framesRendered counts frames produced by workers.
	framesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bimile",
		Subsystem: "render",
		Name:      "frames_total",
		Help:      "Total frames rendered by pipeline workers",
	})

	// renderFailures counts worker failures; any failure aborts its RenderAll call.
	renderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bimile",
		Subsystem: "render",
		Name:      "failures_total",
		Help:      "Total frame render failures",
	})

	// frameLatency measures time spent rendering a single frame.
	frameLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bimile",
		Subsystem: "render",
		Name:      "frame_seconds",
		Help:      "Time to render one frame in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	// activeWorkers is the size of the pool of the running RenderAll call.
	activeWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bimile",
		Subsystem: "render",
		Name:      "workers",
		Help:      "Workers in the currently running render pool",
	})
)

func recordFrame(d time.Duration) {
	framesRendered.Inc()
	frameLatency.Observe(d.Seconds())
}
