package avaserial

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SerializerMetrics contains Prometheus metrics for serialize operations.
type SerializerMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
}

var (
	serializerMetricsInstance *SerializerMetrics
	serializerMetricsOnce     sync.Once
)

// GetSerializerMetrics returns the singleton serializer metrics instance.
func GetSerializerMetrics() *SerializerMetrics {
	serializerMetricsOnce.Do(func() {
		serializerMetricsInstance = &SerializerMetrics{
			operationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "avaserial",
					Subsystem: "serializer",
					Name:      "operations_total",
					Help:      "Total number of serialize operations",
				},
				[]string{"mode", "result"},
			),
			operationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "avaserial",
					Subsystem: "serializer",
					Name:      "operation_duration_seconds",
					Help:      "Duration of serialize operations in seconds",
					Buckets: []float64{
						.0001, .0005, .001, .005,
						.01, .025, .05, .1,
					},
				},
				[]string{"mode"},
			),
			errorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "avaserial",
					Subsystem: "serializer",
					Name:      "errors_total",
					Help:      "Total number of serialize errors",
				},
				[]string{"mode", "error_type"},
			),
		}
	})
	return serializerMetricsInstance
}

// MustRegister registers all serializer metric collectors with the given
// Prometheus registry. promauto registers metrics with the default global
// registry; applications serving /metrics from a custom registry call this
// to make serializer metrics appear there as well.
func (m *SerializerMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.errorsTotal,
	)
}

// Init pre-initializes common label combinations with zero values so that
// metrics appear in scrape output immediately after startup. Prometheus
// *Vec types only emit metric lines after WithLabelValues() is called at
// least once. This method is idempotent and safe to call multiple times.
func (m *SerializerMetrics) Init() {
	for _, mode := range []string{"single", "collection"} {
		for _, result := range []string{"success", "error"} {
			m.operationsTotal.WithLabelValues(mode, result)
		}
		m.operationDuration.WithLabelValues(mode)
		for _, errType := range []string{"request", "serializer", "transform"} {
			m.errorsTotal.WithLabelValues(mode, errType)
		}
	}
}

// RecordOperation records a serialize operation.
func (m *SerializerMetrics) RecordOperation(mode, result string) {
	m.operationsTotal.WithLabelValues(mode, result).Inc()
}

// RecordError records a serialize error.
func (m *SerializerMetrics) RecordError(mode, errorType string) {
	m.errorsTotal.WithLabelValues(mode, errorType).Inc()
}
