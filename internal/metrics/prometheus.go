package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ingestion metrics
	EventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appstats_events_recorded_total",
			Help: "Total number of events committed to the event log",
		},
		[]string{"category"},
	)

	RecordCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appstats_record_calls_total",
			Help: "Total number of record and record-batch calls",
		},
		[]string{"kind", "status"}, // kind: single|batch, status: success|validation_error|capacity_error|storage_error
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "appstats_record_batch_size",
			Help:    "Number of events per committed batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	// Query metrics
	SeriesQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appstats_timeseries_queries_total",
			Help: "Total number of timeseries queries",
		},
		[]string{"period", "status"},
	)

	DashboardCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appstats_dashboard_cache_total",
			Help: "Dashboard cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	// Consumer metrics
	ConsumerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appstats_consumer_messages_total",
			Help: "Queue messages handled by the consumer",
		},
		[]string{"status"}, // status: received|recorded|rejected|retried|malformed
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appstats_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "appstats_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Status labels shared by the record counters
const (
	StatusSuccess         = "success"
	StatusValidationError = "validation_error"
	StatusCapacityError   = "capacity_error"
	StatusStorageError    = "storage_error"
)

// ObserveHTTP records one served request
func ObserveHTTP(method, route, status string, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the Prometheus exposition handler
func Handler() http.Handler {
	return promhttp.Handler()
}
