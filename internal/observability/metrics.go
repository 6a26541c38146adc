package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors. All recording
// helpers are safe to call on a nil *Metrics.
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Domain Metrics
	UsersCreatedTotal     prometheus.Counter
	ExercisesLoggedTotal  prometheus.Counter
	ExerciseMinutesTotal  prometheus.Counter
	LogQueriesTotal       *prometheus.CounterVec
	LogEntriesReturned    prometheus.Histogram
	RateLimitRejectsTotal prometheus.Counter

	// Store Metrics
	StoreQueryDuration *prometheus.HistogramVec

	// Cache (Redis) Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Queue (RabbitMQ) Metrics
	QueueMessagesPublished *prometheus.CounterVec
	QueueMessagesConsumed  *prometheus.CounterVec
	EventsProcessedTotal   *prometheus.CounterVec
	EventsFailedTotal      *prometheus.CounterVec
}

// NewMetrics registers every collector on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		UsersCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "users_created_total",
				Help: "Total number of users created",
			},
		),

		ExercisesLoggedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "exercises_logged_total",
				Help: "Total number of exercises recorded",
			},
		),

		ExerciseMinutesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "exercise_minutes_total",
				Help: "Sum of durations of recorded exercises in minutes",
			},
		),

		LogQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exercise_log_queries_total",
				Help: "Total number of exercise log queries",
			},
			[]string{"filtered"},
		),

		LogEntriesReturned: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "exercise_log_entries_returned",
				Help:    "Number of log entries returned per query",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),

		RateLimitRejectsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_limit_rejects_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		StoreQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_query_duration_seconds",
				Help:    "Duration of record store operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),

		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),

		QueueMessagesPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_published_total",
				Help: "Total number of messages published to the queue",
			},
			[]string{"queue_name"},
		),

		QueueMessagesConsumed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_consumed_total",
				Help: "Total number of messages consumed from the queue",
			},
			[]string{"queue_name"},
		),

		EventsProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_processed_total",
				Help: "Total number of events processed by workers",
			},
			[]string{"event_type", "status"},
		),

		EventsFailedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_failed_total",
				Help: "Total number of events that failed processing",
			},
			[]string{"event_type", "error_type"},
		),
	}
}

func (m *Metrics) UserCreated() {
	if m == nil {
		return
	}
	m.UsersCreatedTotal.Inc()
}

func (m *Metrics) ExerciseLogged(minutes float64) {
	if m == nil {
		return
	}
	m.ExercisesLoggedTotal.Inc()
	if minutes > 0 {
		m.ExerciseMinutesTotal.Add(minutes)
	}
}

func (m *Metrics) LogQueried(filtered bool, returned int) {
	if m == nil {
		return
	}
	label := "false"
	if filtered {
		label = "true"
	}
	m.LogQueriesTotal.WithLabelValues(label).Inc()
	m.LogEntriesReturned.Observe(float64(returned))
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.RateLimitRejectsTotal.Inc()
}

func (m *Metrics) ObserveStore(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.StoreQueryDuration.WithLabelValues(operation).Observe(seconds)
}

// ObserveStoreSince records the time elapsed since start. Use with defer.
func (m *Metrics) ObserveStoreSince(operation string, start time.Time) {
	m.ObserveStore(operation, time.Since(start).Seconds())
}

func (m *Metrics) CacheHit(keyType string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (m *Metrics) CacheMiss(keyType string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (m *Metrics) MessagePublished(queue string) {
	if m == nil {
		return
	}
	m.QueueMessagesPublished.WithLabelValues(queue).Inc()
}

func (m *Metrics) MessageConsumed(queue string) {
	if m == nil {
		return
	}
	m.QueueMessagesConsumed.WithLabelValues(queue).Inc()
}

func (m *Metrics) EventProcessed(eventType, status string) {
	if m == nil {
		return
	}
	m.EventsProcessedTotal.WithLabelValues(eventType, status).Inc()
}

func (m *Metrics) EventFailed(eventType, errorType string) {
	if m == nil {
		return
	}
	m.EventsFailedTotal.WithLabelValues(eventType, errorType).Inc()
}
