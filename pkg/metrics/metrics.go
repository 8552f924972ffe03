package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal        *prometheus.CounterVec
	HTTPRequestDuration      *prometheus.HistogramVec
	DetectorRunsTotal        *prometheus.CounterVec
	BottlenecksDetectedTotal *prometheus.CounterVec
	AnalysisDuration         prometheus.Histogram
	CollectionsTotal         *prometheus.CounterVec
	CollectionDuration       *prometheus.HistogramVec
	CollectionQueueLength    prometheus.Gauge

	once sync.Once
)

// Init registers every collector with the default registry. Calling it more
// than once is a no-op.
func Init() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DetectorRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detector_runs_total",
			Help: "Total number of detector invocations.",
		},
		[]string{"detector", "status"}, // status: ok, fault
	)

	BottlenecksDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bottlenecks_detected_total",
			Help: "Total number of bottlenecks reported.",
		},
		[]string{"category", "severity"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Duration of a full analysis cycle.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	CollectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collections_total",
			Help: "Total number of page collection attempts.",
		},
		[]string{"status", "error_type"}, // status: success, failure
	)

	CollectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collection_duration_seconds",
			Help:    "Duration of page collections.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"domain"},
	)

	CollectionQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collection_queue_length",
			Help: "Current number of jobs in the collection queue.",
		},
	)
}
