package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordInference(t *testing.T) {
	c := NewCollector("semnet_test")

	c.RecordInference(3, 1, 2*time.Millisecond)
	c.RecordInference(0, 2, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.InferenceRuns))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.InferredRelations))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Conflicts))
}

func TestCollector_RecordGraphSize(t *testing.T) {
	c := NewCollector("semnet_test")

	c.RecordGraphSize(4, 7)
	c.RecordGraphSize(2, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.GraphNodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GraphRelations))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("semnet_test")
	c.RecordHTTPRequest(http.MethodGet, "/api/v1/graph", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `semnet_test_http_requests_total{method="GET",route="/api/v1/graph",status="200"} 1`)
	assert.Contains(t, body, "semnet_test_inference_runs_total 0")
}

func TestSampleRate(t *testing.T) {
	assert.Equal(t, 0.01, sampleRate("production"))
	assert.Equal(t, 0.1, sampleRate("staging"))
	assert.Equal(t, 1.0, sampleRate("development"))
}
