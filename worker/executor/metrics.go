package executor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
	outcomeAborted  = "aborted"
)

type metrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	queued     prometheus.Gauge
}

var (
	metricsOnce sync.Once
	registry    *metrics
)

func executorMetrics() *metrics {
	metricsOnce.Do(func() {
		registry = &metrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "moneymarket",
				Subsystem: "executor",
				Name:      "operations_total",
				Help:      "Ledger operations applied, by action and outcome.",
			}, []string{"action", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "moneymarket",
				Subsystem: "executor",
				Name:      "operation_duration_seconds",
				Help:      "Time spent applying one ledger operation.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"action"}),
			queued: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "moneymarket",
				Subsystem: "executor",
				Name:      "queued_operations",
				Help:      "Operations waiting in the executor queue.",
			}),
		}

		prometheus.MustRegister(registry.operations, registry.latency, registry.queued)
	})

	return registry
}
