// Package metrics defines the instrumentation interface for the state
// store and the verified query client, with Prometheus and no-op
// implementations.
package metrics

import "time"

// Metrics collects operational metrics. Implementations must be safe
// for concurrent use.
type Metrics interface {
	// State store metrics

	StateStoreGet()
	StateStoreSet()
	StateStoreDelete()
	StateStoreCommit(version int64)

	// Proof metrics

	ProofBuilt(entries int)
	ObserveProofVerification(duration time.Duration)
	IncProofsRejected()

	// Client metrics

	ObserveQueryDuration(duration time.Duration)
	IncQueries(result string)
	IncCalls(result string)
}

// Result label values for query and call counters.
const (
	ResultOK    = "ok"
	ResultError = "error"
)
