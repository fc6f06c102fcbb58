package prometheus

import (
	"time"

	"grow-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Entity operation metrics, labelled by entity kind and operation
	CultivationOperationsCounter prometheus.CounterVec

	// Rejected mutations on harvested (locked) records
	LockedMutationsCounter prometheus.CounterVec

	// Harvest finalization metrics
	HarvestFinalizedCounter prometheus.Counter
	HarvestWetWeightGauge   prometheus.GaugeVec

	// Diary metrics
	DiaryEntriesCounter prometheus.CounterVec

	// Plants currently tracked, labelled by status
	PlantsByStatusGauge prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	CultivationOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of cultivation entity operations",
		},
		[]string{"entity", "operation"},
	)

	LockedMutationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_locked_mutations_total",
			Help: "Total number of mutations rejected on harvested records",
		},
		[]string{"entity"},
	)

	HarvestFinalizedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_harvests_finalized_total",
			Help: "Total number of finalized harvests",
		},
	)

	HarvestWetWeightGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_harvest_wet_weight_grams",
			Help: "Wet weight recorded at harvest finalization",
		},
		[]string{"harvest_id", "charge_id"},
	)

	DiaryEntriesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_diary_entries_total",
			Help: "Total number of diary entries appended",
		},
		[]string{"owner_type"},
	)

	PlantsByStatusGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_plants_by_status",
			Help: "Number of tracked plants per lifecycle status",
		},
		[]string{"status"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOperation increments the counter for an entity operation
func RecordOperation(entity, operation string) {
	CultivationOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordLockedMutation increments the rejected-mutation counter for an entity kind
func RecordLockedMutation(entity string) {
	LockedMutationsCounter.WithLabelValues(entity).Inc()
}

// RecordDiaryEntry increments the diary counter for an owner kind
func RecordDiaryEntry(ownerType string) {
	DiaryEntriesCounter.WithLabelValues(ownerType).Inc()
}
