package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider()

	require.NoError(t, err)
	assert.NotNil(t, provider.meterProvider)
	assert.NotNil(t, provider.registry)
}

func TestProvider_Handler(t *testing.T) {
	provider, err := NewProvider()
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "secretd")
	require.NoError(t, err)
	bm.RecordOperation(context.Background(), "secrets", "secret_define", "success")

	rec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "secretd_operations_total")
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		provider, err := NewProvider()
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("NilMeterProvider", func(t *testing.T) {
		provider := &Provider{}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
