// Package metric provides Prometheus metrics for the store.
//
// Metrics include operation counters, persist latency and size
// histograms, and an entry count gauge.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Store implements the storage engine's metrics hooks on top of a
// Prometheus registry.
type Store struct {
	ops             *prometheus.CounterVec
	persistDuration prometheus.Histogram
	persistBytes    prometheus.Histogram
	entries         prometheus.Gauge
}

// NewStore creates the store metrics and registers them with registry.
//
// This should be called once during initialization.
func NewStore(registry *prometheus.Registry) *Store {
	s := &Store{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flatkv",
			Subsystem: "store",
			Name:      "ops_total",
			Help:      "Total store operations by kind",
		}, []string{"op"}),

		persistDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flatkv",
			Subsystem: "store",
			Name:      "persist_duration_seconds",
			Help:      "Time spent writing the backing file",
			Buckets:   prometheus.DefBuckets,
		}),

		persistBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flatkv",
			Subsystem: "store",
			Name:      "persist_bytes",
			Help:      "Size of the persisted backing file in bytes",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 10),
		}),

		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flatkv",
			Subsystem: "store",
			Name:      "entries",
			Help:      "Current number of entries in the store",
		}),
	}

	registry.MustRegister(s.ops, s.persistDuration, s.persistBytes, s.entries)
	return s
}

// IncOp counts one store operation of the given kind.
func (s *Store) IncOp(op string) {
	s.ops.WithLabelValues(op).Inc()
}

// ObservePersist records one snapshot write.
func (s *Store) ObservePersist(elapsed time.Duration, bytes int) {
	s.persistDuration.Observe(elapsed.Seconds())
	s.persistBytes.Observe(float64(bytes))
}

// SetEntryCount tracks the current store size.
func (s *Store) SetEntryCount(n int) {
	s.entries.Set(float64(n))
}
