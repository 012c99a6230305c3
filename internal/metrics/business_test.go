package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrapeMetrics(t *testing.T, provider *Provider) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(recorder, request)

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("gateway_test")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "gateway_test")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("gateway_test")
	require.NoError(t, err)
	bm, err := NewBusinessMetrics(provider.MeterProvider(), "gateway_test")
	require.NoError(t, err)

	bm.RecordOperation(context.Background(), "auth", "login", "success")
	bm.RecordOperation(context.Background(), "llm", "generate", "error")

	output := scrapeMetrics(t, provider)
	assert.Regexp(t, `gateway_test_operations_total\{[^}]*operation="login"[^}]*\} 1`, output)
	assert.Regexp(t, `gateway_test_operations_total\{[^}]*operation="generate"[^}]*\} 1`, output)
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("gateway_test")
	require.NoError(t, err)
	bm, err := NewBusinessMetrics(provider.MeterProvider(), "gateway_test")
	require.NoError(t, err)

	bm.RecordDuration(context.Background(), "llm", "generate", 250*time.Millisecond, "success")

	output := scrapeMetrics(t, provider)
	assert.Contains(t, output, "gateway_test_operation_duration_seconds")
}

func TestBusinessMetrics_RecordInference(t *testing.T) {
	provider, err := NewProvider("gateway_test")
	require.NoError(t, err)
	bm, err := NewBusinessMetrics(provider.MeterProvider(), "gateway_test")
	require.NoError(t, err)

	bm.RecordInference(context.Background(), "gpt-4", 42, 0.00126)
	bm.RecordInference(context.Background(), "gpt-4", 8, 0.00024)

	output := scrapeMetrics(t, provider)
	assert.Regexp(t, `gateway_test_inference_tokens_total\{[^}]*model="gpt-4"[^}]*\} 50`, output)
	assert.Contains(t, output, "gateway_test_inference_cost_usd_total")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()

	// No-ops must be safe to call.
	bm.RecordOperation(context.Background(), "auth", "login", "success")
	bm.RecordDuration(context.Background(), "llm", "generate", time.Second, "success")
	bm.RecordInference(context.Background(), "gpt-4", 10, 0.0003)
}
