// AngelaMos | 2026
// metrics_test.go

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "storefront")

	c.RecordHTTPRequest(http.MethodGet, "/products/{id}", http.StatusOK, 20*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/products/{id}", http.StatusOK, 30*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/products/{id}", http.StatusNotFound, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(
		c.requests.WithLabelValues(http.MethodGet, "/products/{id}", "200"),
	), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(
		c.requests.WithLabelValues(http.MethodGet, "/products/{id}", "404"),
	), 0)
}

func TestRecordFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "storefront")

	c.RecordVendorFailure("cognito", "sign_in")
	c.RecordMediaCleanupFailure("product_delete")
	c.RecordMediaCleanupFailure("product_delete")
	c.RecordCartAdd(3)
	c.RecordRateLimited("auth")

	assert.InDelta(t, 1, testutil.ToFloat64(c.vendorFailures.WithLabelValues("cognito", "sign_in")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.mediaCleanup.WithLabelValues("product_delete")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(c.cartUnits), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.rateLimited.WithLabelValues("auth")), 0)
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "storefront")
	c.RecordVendorFailure("cloudinary", "upload")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `storefront_vendor_failures_total{operation="upload",vendor="cloudinary"} 1`)
}
