package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements the Metrics interface using Prometheus.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	// State store metrics
	stateStoreVersion prometheus.Gauge
	stateStoreGets    prometheus.Counter
	stateStoreSets    prometheus.Counter
	stateStoreDeletes prometheus.Counter
	stateStoreCommits prometheus.Counter

	// Proof metrics
	proofEntries      prometheus.Histogram
	proofVerification prometheus.Histogram
	proofsRejected    prometheus.Counter

	// Client metrics
	queryDuration prometheus.Histogram
	queries       *prometheus.CounterVec
	calls         *prometheus.CounterVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance.
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	m := &PrometheusMetrics{
		registry: registry,

		// State store metrics
		stateStoreVersion: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "statestore_version",
				Help:      "Latest committed state store version",
			},
		),
		stateStoreGets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statestore_gets_total",
				Help:      "Total number of state store get operations",
			},
		),
		stateStoreSets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statestore_sets_total",
				Help:      "Total number of state store set operations",
			},
		),
		stateStoreDeletes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statestore_deletes_total",
				Help:      "Total number of state store delete operations",
			},
		),
		stateStoreCommits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statestore_commits_total",
				Help:      "Total number of state store commits",
			},
		),

		// Proof metrics
		proofEntries: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "proof_entries",
				Help:      "Number of entries per built proof",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		proofVerification: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "proof_verification_seconds",
				Help:      "Time spent verifying proof payloads",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		proofsRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proofs_rejected_total",
				Help:      "Total number of proofs rejected by verification",
			},
		),

		// Client metrics
		queryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "End-to-end duration of verified queries",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of verified queries",
			},
			[]string{"result"},
		),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of transaction calls",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.stateStoreVersion,
		m.stateStoreGets,
		m.stateStoreSets,
		m.stateStoreDeletes,
		m.stateStoreCommits,
		m.proofEntries,
		m.proofVerification,
		m.proofsRejected,
		m.queryDuration,
		m.queries,
		m.calls,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics endpoint.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// State store metrics

func (m *PrometheusMetrics) StateStoreGet()    { m.stateStoreGets.Inc() }
func (m *PrometheusMetrics) StateStoreSet()    { m.stateStoreSets.Inc() }
func (m *PrometheusMetrics) StateStoreDelete() { m.stateStoreDeletes.Inc() }

func (m *PrometheusMetrics) StateStoreCommit(version int64) {
	m.stateStoreCommits.Inc()
	m.stateStoreVersion.Set(float64(version))
}

// Proof metrics

func (m *PrometheusMetrics) ProofBuilt(entries int) {
	m.proofEntries.Observe(float64(entries))
}

func (m *PrometheusMetrics) ObserveProofVerification(duration time.Duration) {
	m.proofVerification.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) IncProofsRejected() {
	m.proofsRejected.Inc()
}

// Client metrics

func (m *PrometheusMetrics) ObserveQueryDuration(duration time.Duration) {
	m.queryDuration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) IncQueries(result string) {
	m.queries.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) IncCalls(result string) {
	m.calls.WithLabelValues(result).Inc()
}
