package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP
// =============================================================================

var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Document store (MongoDB) and audit database (PostgreSQL)
// =============================================================================

var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database operations in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "collection"},
)

var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis
// =============================================================================

var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// =============================================================================
// Kafka
// =============================================================================

var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"service", "topic"},
)

var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume, commit
)

// =============================================================================
// Booking lifecycle
// =============================================================================

// BookingChanges counts booking writes by change kind: created, updated,
// cancelled, rescheduled, status.
var BookingChanges = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_changes_total",
		Help: "Total number of booking writes by change kind",
	},
	[]string{"change"},
)

var BookingRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_rejections_total",
		Help: "Booking mutations rejected by business rules",
	},
	[]string{"reason"}, // slot_conflict, invalid_transition, version_conflict
)

var BookingTotalPrice = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "booking_total_price",
		Help:    "Distribution of booking totals",
		Buckets: []float64{10, 20, 30, 50, 75, 100, 150, 250},
	},
)

var RatingsSubmitted = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "ratings_submitted",
		Help:    "Distribution of submitted rating scores",
		Buckets: []float64{1, 2, 3, 4, 5},
	},
)

// =============================================================================
// Notifications, outbox, triggers, reminders
// =============================================================================

var NotificationsSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Outbound notifications by channel and result",
	},
	[]string{"channel", "status"}, // channel: email, push; status: success, failed
)

var OutboxEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "outbox_events_total",
		Help: "Outbox relay results",
	},
	[]string{"status"}, // published, retry, failed
)

var TriggerRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trigger_runs_total",
		Help: "Trigger executions by event type and result",
	},
	[]string{"event_type", "status"},
)

var RemindersSent = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Reminder emails by window and result",
	},
	[]string{"window", "status"}, // status: sent, duplicate, failed
)

var ReminderRunDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "reminder_run_duration_seconds",
		Help:    "Duration of one reminder job run",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	},
)
