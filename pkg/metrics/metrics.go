// Package metrics provides Prometheus metrics for the burnboard scorekeeping service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring pipeline
	scoresSubmitted     prometheus.Counter
	scoresDuplicate     prometheus.Counter
	scoresRecorded      prometheus.Counter
	scoreComputeLatency prometheus.Histogram

	// Leaderboard reads
	leaderboardQueries      prometheus.Counter
	leaderboardQueryLatency prometheus.Histogram

	// Scoring review
	deviationFindings prometheus.Gauge

	// Queue health
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Stores
	storeRecords *prometheus.GaugeVec

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors by component
	componentErrors *prometheus.CounterVec

	// Process health
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

// Registry dedicated to this service, free of the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

var globalManager *Manager //nolint:gochecknoglobals // singleton manager

func init() { //nolint:gochecknoinits // metrics must exist before any component runs
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "burnboard",
		subsystem:        "scorekeeping",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) register() {
	auto := promauto.With(m.registry)

	m.scoresSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scores_submitted_total",
		Help: "Score submissions accepted into the pipeline",
	})
	m.scoresDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scores_duplicate_total",
		Help: "Score submissions rejected as duplicates",
	})
	m.scoresRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scores_recorded_total",
		Help: "Score records persisted by workers",
	})
	m.scoreComputeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "score_compute_latency_milliseconds",
		Help:    "Latency of subtotal/penalty/final computation",
		Buckets: m.histogramBuckets,
	})

	m.leaderboardQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "leaderboard_queries_total",
		Help: "Leaderboard aggregations served",
	})
	m.leaderboardQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "leaderboard_query_latency_milliseconds",
		Help:    "Latency of leaderboard aggregation",
		Buckets: m.histogramBuckets,
	})

	m.deviationFindings = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "deviation_findings",
		Help: "Unacknowledged scoring-review findings at last check",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Submissions waiting in the queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Maximum queue capacity",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Queue fill ratio",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total",
		Help: "Successful enqueues",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total",
		Help: "Successful dequeues",
	})
	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Enqueues rejected by backpressure or shutdown",
	})

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_active",
		Help: "Running scoring workers",
	})
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_latency_milliseconds",
		Help:    "End-to-end latency of one submission through a worker",
		Buckets: m.histogramBuckets,
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Submissions a worker failed to process",
	})

	m.storeRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_records",
		Help: "Records held per in-memory store",
	}, []string{"store"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration by endpoint, method, and status",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.componentErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "component_errors_total",
		Help: "Errors by component and reason",
	}, []string{"component", "reason"})

	m.systemMemoryBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Allocated heap bytes",
	})
	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Live goroutines",
	})
}

// Package-level helpers recording on the global manager.

// RecordScoreSubmitted increments accepted submissions.
func RecordScoreSubmitted() { globalManager.scoresSubmitted.Inc() }

// RecordScoreDuplicate increments duplicate submissions.
func RecordScoreDuplicate() { globalManager.scoresDuplicate.Inc() }

// RecordScoreRecorded increments persisted score records.
func RecordScoreRecorded() { globalManager.scoresRecorded.Inc() }

// RecordScoreComputeLatency records calculator latency in milliseconds.
func RecordScoreComputeLatency(ms float64) { globalManager.scoreComputeLatency.Observe(ms) }

// RecordLeaderboardQuery counts one leaderboard aggregation and its latency.
func RecordLeaderboardQuery(ms float64) {
	globalManager.leaderboardQueries.Inc()
	globalManager.leaderboardQueryLatency.Observe(ms)
}

// UpdateDeviationFindings sets the current open finding count.
func UpdateDeviationFindings(n int) { globalManager.deviationFindings.Set(float64(n)) }

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(r float64) { globalManager.queueUtilization.Set(r) }

// RecordQueueEnqueue counts a successful enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueDequeue counts a successful dequeue.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerActiveCount sets the running worker gauge.
func UpdateWorkerActiveCount(n int) { globalManager.workerActive.Set(float64(n)) }

// RecordWorkerProcessingLatency records per-submission worker latency.
func RecordWorkerProcessingLatency(ms float64) { globalManager.workerProcessingLatency.Observe(ms) }

// RecordWorkerError counts a failed submission.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateStoreRecords sets the record gauge for one store.
func UpdateStoreRecords(store string, n int) {
	globalManager.storeRecords.WithLabelValues(store).Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// RecordComponentError counts an error for a component with a reason label.
func RecordComponentError(component, reason string) {
	globalManager.componentErrors.WithLabelValues(component, reason).Inc()
}

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(b uint64) { globalManager.systemMemoryBytes.Set(float64(b)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutines.Set(float64(n)) }

// GetRegistry returns the registry all service metrics live on.
func GetRegistry() *prometheus.Registry { return customRegistry }
