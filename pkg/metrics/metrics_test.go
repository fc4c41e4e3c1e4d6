package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveImport(5, 2)
	m.ObserveImport(1, 0)
	assert.Equal(t, 6.0, testutil.ToFloat64(m.importedRows))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skippedRows))

	m.StoreFailure("merge")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeFailures.WithLabelValues("merge")))

	m.ObserveRequest("/employee", "GET", "200", 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/employee", "GET", "200")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveImport(1, 1)
		m.ObserveSubtree(3)
		m.StoreFailure("find")
		m.ObserveRequest("/", "GET", "200", time.Second)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveSubtree(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orgchart_subtree_nodes_count 1")
}
