package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordersUpdateCounters(t *testing.T) {
	before := testutil.ToFloat64(logins.WithLabelValues(LoginKnown))
	RecordLogin(LoginKnown)
	assert.Equal(t, before+1, testutil.ToFloat64(logins.WithLabelValues(LoginKnown)))

	before = testutil.ToFloat64(trendingRuns.WithLabelValues(TrendingNoData))
	RecordTrending(TrendingNoData)
	assert.Equal(t, before+1, testutil.ToFloat64(trendingRuns.WithLabelValues(TrendingNoData)))
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}
