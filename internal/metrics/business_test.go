package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric with
// the given name, partial label pattern and value. A regex absorbs the OTel
// scope labels the exporter injects.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	rec := httptest.NewRecorder()
	provider.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider()
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "secretd")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "secrets", "secret_define", "success")
	bm.RecordOperation(ctx, "secrets", "secret_define", "success")
	bm.RecordOperation(ctx, "secrets", "secret_get_value", "error")
	bm.RecordOperation(ctx, "auth", "session_open", "success")

	output := scrape(t, provider)
	assertMetricLine(t, output, "secretd_operations_total", `operation="secret_define"`, "2")
	assertMetricLine(t, output, "secretd_operations_total", `operation="secret_get_value"`, "1")
	assertMetricLine(t, output, "secretd_operations_total", `domain="auth"`, "1")
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider()
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "secretd")
	require.NoError(t, err)

	bm.RecordDuration(context.Background(), "secrets", "secret_set_value", 150*time.Millisecond, "success")

	output := scrape(t, provider)
	assertMetricLine(t, output, "secretd_operation_duration_seconds_count", `operation="secret_set_value"`, "1")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()

	assert.NotPanics(t, func() {
		noOp.RecordOperation(context.Background(), "secrets", "secret_define", "success")
		noOp.RecordDuration(context.Background(), "secrets", "secret_define", time.Second, "success")
	})
}
