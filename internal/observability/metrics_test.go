package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, handler http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewMetrics(t *testing.T) {
	metrics, handler, err := NewMetrics(context.Background())
	require.NoError(t, err)
	require.NotNil(t, metrics)
	require.NotNil(t, handler)
	t.Cleanup(func() { _ = metrics.Shutdown(context.Background()) })
}

func TestMetrics_Exported(t *testing.T) {
	ctx := context.Background()
	metrics, handler, err := NewMetrics(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = metrics.Shutdown(ctx) })

	metrics.RecordHTTPRequest(ctx, http.MethodGet, "/process-invoices/status/abc123", 200, 20*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, http.MethodGet, "/process-invoices/run/draft", 400, time.Millisecond)
	metrics.RecordLaunch(ctx, constants.FinalRun, "success")
	metrics.RecordStatusView(ctx, constants.StatusExpired)
	metrics.RecordMonitor(ctx, "timeout", 600*time.Second)
	metrics.StreamOpened(ctx)
	metrics.StreamClosed(ctx)

	body := scrape(t, handler)

	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "http_errors_total")
	assert.Contains(t, body, `path="/process-invoices/status/{taskID}"`)
	assert.Contains(t, body, `status="4xx"`)
	assert.Contains(t, body, "task_launches_total")
	assert.Contains(t, body, `run_type="final"`)
	assert.Contains(t, body, `label="EXPIRED (UNKNOWN)"`)
	assert.Contains(t, body, "task_monitor_duration")
	assert.Contains(t, body, `outcome="timeout"`)
	assert.Contains(t, body, "status_streams_active")
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/", "/"},
		{"/healthz", "/healthz"},
		{"/process-invoices", "/process-invoices"},
		{"/process-invoices/status/", "/process-invoices/status/"},
		{"/process-invoices/status/abc123", "/process-invoices/status/{taskID}"},
		{"/process-invoices/status/abc123/data", "/process-invoices/status/{taskID}/data"},
		{"/process-invoices/status/{taskID}/stream", "/process-invoices/status/{taskID}/stream"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizePath(tt.input))
		})
	}
}

func TestStatusAttr(t *testing.T) {
	assert.Equal(t, "2xx", statusAttr(204).Value.AsString())
	assert.Equal(t, "5xx", statusAttr(503).Value.AsString())
}
