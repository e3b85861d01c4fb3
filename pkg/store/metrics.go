package store

import "time"

// Metrics receives engine telemetry. Implementations must be safe for
// concurrent use. The prometheus-backed implementation lives in
// internal/telemetry/metric.
type Metrics interface {
	// IncOp counts one engine operation by name ("set", "get", ...).
	IncOp(op string)

	// ObservePersist records one completed snapshot write.
	ObservePersist(elapsed time.Duration, bytes int)

	// SetEntryCount tracks the current number of in-memory entries.
	SetEntryCount(n int)
}

// observe counts an operation when metrics are configured.
func (e *Engine) observe(op string) {
	if e.metrics != nil {
		e.metrics.IncOp(op)
	}
}
