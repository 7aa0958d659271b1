package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "consent_management"

// Metrics holds Prometheus collectors for consent operations.
type Metrics struct {
	ConsentsCreated *prometheus.CounterVec
	ConsentsUpdated *prometheus.CounterVec

	// Repository metrics, labeled by backend ("memory", "dynamodb")
	RepositoryOperationLatency *prometheus.HistogramVec
	RepositoryErrors           *prometheus.CounterVec
	ListPageSize               *prometheus.HistogramVec

	ShardLockWait prometheus.Histogram
}

// New registers consent metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers consent metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConsentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consents_created_total",
			Help:      "Total number of consents created, labeled by status",
		}, []string{"status"}),
		ConsentsUpdated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consents_updated_total",
			Help:      "Total number of consent updates accepted, labeled by resulting status",
		}, []string{"status"}),
		RepositoryOperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repository_operation_latency_seconds",
			Help:      "Latency of consent repository operations in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"backend", "operation"}),
		RepositoryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_errors_total",
			Help:      "Total number of failed repository operations, labeled by error code",
		}, []string{"backend", "operation", "code"}),
		ListPageSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_page_size",
			Help:      "Distribution of consents returned per list page",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"backend"}),
		ShardLockWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "memory_shard_lock_wait_seconds",
			Help:      "Time in-memory writes spent waiting for their identity shard lock",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementConsentsCreated(status string) {
	m.ConsentsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementConsentsUpdated(status string) {
	m.ConsentsUpdated.WithLabelValues(status).Inc()
}

// ObserveRepositoryOperation records the latency of a repository operation.
func (m *Metrics) ObserveRepositoryOperation(backend, operation string, durationSeconds float64) {
	m.RepositoryOperationLatency.WithLabelValues(backend, operation).Observe(durationSeconds)
}

func (m *Metrics) IncrementRepositoryErrors(backend, operation, code string) {
	m.RepositoryErrors.WithLabelValues(backend, operation, code).Inc()
}

func (m *Metrics) ObserveListPageSize(backend string, size int) {
	m.ListPageSize.WithLabelValues(backend).Observe(float64(size))
}

func (m *Metrics) ObserveShardLockWait(durationSeconds float64) {
	m.ShardLockWait.Observe(durationSeconds)
}
