package mirror

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes recorded in requests_total.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultError    = "error"
	resultInvalid  = "invalid"
	resultDropped  = "dropped"
)

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	queueWait       prometheus.Histogram

	queueDepth prometheus.Gauge
	ready      prometheus.Gauge
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Subsystem: "mirror",
			Name:      "requests_total",
			Help:      "Total number of mirror requests by type and outcome.",
		}, []string{"type", "result"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Subsystem: "mirror",
			Name:      "request_duration_seconds",
			Help:      "Time spent handling a mirror request.",
			Buckets: []float64{
				0.0005, 0.001, 0.005,
				0.01, 0.05, 0.1,
				0.5, 1, 5,
			},
		}, []string{"type"}),
		queueWait: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Subsystem: "mirror",
			Name:      "queue_wait_seconds",
			Help:      "Time a request spent queued before the worker picked it up.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		queueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "orgchart",
			Subsystem: "mirror",
			Name:      "queue_depth",
			Help:      "Requests waiting for the worker.",
		}),
		ready: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "orgchart",
			Subsystem: "mirror",
			Name:      "ready",
			Help:      "Whether the store is open and the worker is serving requests (1/0).",
		}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
