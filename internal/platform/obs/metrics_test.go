package obs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveRequest(OutcomeMatched)
	m.ObserveRequest(OutcomeMatched)
	m.ObserveRequest(OutcomeInvalid)
	m.ObserveQuery(20*time.Millisecond, 3, 2)
	m.ObserveQuery(5*time.Millisecond, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CandidatesSkipped))
	assert.Equal(t, 1, testutil.CollectAndCount(m.QueryDuration))
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetricsNilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest(OutcomeError)
	m.ObserveQuery(time.Second, 1, 1)
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.ObserveRequest(OutcomeNoMatches)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `swapmatch_requests_total{outcome="no_matches"} 1`))
}
