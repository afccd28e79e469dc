package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func exercise(m Metrics) {
	m.StateStoreGet()
	m.StateStoreSet()
	m.StateStoreDelete()
	m.StateStoreCommit(3)
	m.ProofBuilt(5)
	m.ObserveProofVerification(time.Millisecond)
	m.IncProofsRejected()
	m.ObserveQueryDuration(10 * time.Millisecond)
	m.IncQueries(ResultOK)
	m.IncQueries(ResultError)
	m.IncCalls(ResultOK)
}

func TestNopMetrics(t *testing.T) {
	require.NotPanics(t, func() { exercise(NewNopMetrics()) })
}

func TestPrometheusMetrics(t *testing.T) {
	m := NewPrometheusMetrics("stateberry")
	exercise(m)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "stateberry_statestore_version 3")
	require.Contains(t, body, "stateberry_statestore_gets_total 1")
	require.Contains(t, body, "stateberry_proofs_rejected_total 1")
	require.Contains(t, body, `stateberry_queries_total{result="ok"} 1`)
	require.Contains(t, body, `stateberry_queries_total{result="error"} 1`)
	require.Contains(t, body, `stateberry_calls_total{result="ok"} 1`)
}
