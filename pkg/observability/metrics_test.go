package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_NilRegistry(t *testing.T) {
	m := NewMetrics(nil)
	require.NotNil(t, m)
	require.NotNil(t, m.registry)
}

func TestRecordAuthOperation(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAuthOperation("verify_otp", "success")
	m.RecordAuthOperation("verify_otp", "success")
	m.RecordAuthOperation("verify_otp", "invalid_code")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.AuthOperationsTotal.WithLabelValues("verify_otp", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthOperationsTotal.WithLabelValues("verify_otp", "invalid_code")))
}

func TestRecordTenantRedirect(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordTenantRedirect("resolved")
	m.RecordTenantRedirect("fallback")
	m.RecordTenantRedirect("fallback")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.TenantRedirectsTotal.WithLabelValues("resolved")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.TenantRedirectsTotal.WithLabelValues("fallback")))
}

func TestMetricsHandler_ServesRegisteredMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tikezone_http_requests_total")
}
