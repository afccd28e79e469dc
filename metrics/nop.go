package metrics

import (
	"time"
)

// NopMetrics is a no-op implementation of the Metrics interface.
// Use this when metrics collection is disabled.
type NopMetrics struct{}

// NewNopMetrics creates a new NopMetrics instance.
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// State store metrics (no-op)

func (m *NopMetrics) StateStoreGet()                 {}
func (m *NopMetrics) StateStoreSet()                 {}
func (m *NopMetrics) StateStoreDelete()              {}
func (m *NopMetrics) StateStoreCommit(version int64) {}

// Proof metrics (no-op)

func (m *NopMetrics) ProofBuilt(entries int)                              {}
func (m *NopMetrics) ObserveProofVerification(duration time.Duration)     {}
func (m *NopMetrics) IncProofsRejected()                                  {}

// Client metrics (no-op)

func (m *NopMetrics) ObserveQueryDuration(duration time.Duration) {}
func (m *NopMetrics) IncQueries(result string)                    {}
func (m *NopMetrics) IncCalls(result string)                      {}
