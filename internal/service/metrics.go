package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels of the operations counter
const (
	OpFormatJSON   = "format_json"
	OpValidateJSON = "validate_json"
	OpEncode       = "base64_encode"
	OpDecode       = "base64_decode"
)

// Metrics prometheus collectors of the toolbox services.
// A nil *Metrics records nothing.
// Metrics 工具服务的 prometheus 指标，nil 时不记录
type Metrics struct {
	operations     *prometheus.CounterVec
	formatDuration prometheus.Histogram
	historyCreated prometheus.Counter
	historyDeleted prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg
// NewMetrics 创建指标并注册到 reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolbox",
			Name:      "operations_total",
			Help:      "Number of transform operations by operation and result.",
		}, []string{"operation", "result"}),
		formatDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "toolbox",
			Name:      "format_duration_seconds",
			Help:      "Time spent formatting JSON, excluding persistence.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		historyCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "toolbox",
			Name:      "history_created_total",
			Help:      "Number of history records persisted.",
		}),
		historyDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "toolbox",
			Name:      "history_deleted_total",
			Help:      "Number of history records deleted by cleanup or explicit deletion.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.formatDuration, m.historyCreated, m.historyDeleted)
	}
	return m
}

func (m *Metrics) observeOperation(op string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) observeFormat(seconds float64) {
	if m == nil {
		return
	}
	m.formatDuration.Observe(seconds)
}

func (m *Metrics) addCreated(n int) {
	if m == nil {
		return
	}
	m.historyCreated.Add(float64(n))
}

func (m *Metrics) addDeleted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.historyDeleted.Add(float64(n))
}
