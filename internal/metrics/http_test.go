package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider()
	require.NoError(t, err)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "secretd"))
	router.GET("/v1/secrets/:uuid/value", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("RecordsRoutePattern", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/secrets/0c5f4e2a-3d2e-4b8a-9f61-1a2b3c4d5e6f/value", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		output := scrape(t, provider)
		assertMetricLine(t, output, "secretd_http_requests_total", `path="/v1/secrets/:uuid/value"`, "1")
		assertMetricLine(t, output, "secretd_http_requests_total", `status_code="200"`, "1")
	})

	t.Run("UnmatchedRouteRecordedAsUnknown", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)

		output := scrape(t, provider)
		assertMetricLine(t, output, "secretd_http_requests_total", `path="unknown"`, "1")
	})
}
