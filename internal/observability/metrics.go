package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the application metrics:
// - HTTP latency, traffic and errors
// - task launches by run type and outcome
// - status views by reconciled label
// - monitor durations by outcome
// - open status streams
type Metrics struct {
	provider *sdkmetric.MeterProvider
	meter    metric.Meter

	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsTotal   metric.Int64Counter
	HTTPErrorsTotal     metric.Int64Counter

	TaskLaunchesTotal metric.Int64Counter
	StatusViewsTotal  metric.Int64Counter
	MonitorDuration   metric.Float64Histogram
	StreamsActive     metric.Int64UpDownCounter
}

// NewMetrics creates the metrics on a dedicated Prometheus registry and returns
// the handler serving it.
func NewMetrics(_ context.Context) (*Metrics, http.Handler, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(constants.ProjectName)
	m := &Metrics{provider: provider, meter: meter}

	// HTTP metrics
	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPErrorsTotal, err = meter.Int64Counter(
		"http_errors_total",
		metric.WithDescription("Total number of HTTP errors (4xx and 5xx)"),
	)
	if err != nil {
		return nil, nil, err
	}

	// Task metrics
	m.TaskLaunchesTotal, err = meter.Int64Counter(
		"task_launches_total",
		metric.WithDescription("Total number of SAP invoice run launch attempts"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.StatusViewsTotal, err = meter.Int64Counter(
		"task_status_views_total",
		metric.WithDescription("Total number of reconciled task status views by label"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.MonitorDuration, err = meter.Float64Histogram(
		"task_monitor_duration_seconds",
		metric.WithDescription("Time spent monitoring a task until it stopped or timed out"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(5, 10, 30, 60, 120, 300, 600, 900),
	)
	if err != nil {
		return nil, nil, err
	}

	m.StreamsActive, err = meter.Int64UpDownCounter(
		"status_streams_active",
		metric.WithDescription("Number of open task status WebSocket streams"),
	)
	if err != nil {
		return nil, nil, err
	}

	return m, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		methodAttr(method),
		pathAttr(path),
		statusAttr(statusCode),
	)

	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)

	if statusCode >= 400 {
		m.HTTPErrorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordLaunch records a launch attempt.
func (m *Metrics) RecordLaunch(ctx context.Context, runType constants.RunType, outcome string) {
	m.TaskLaunchesTotal.Add(ctx, 1, metric.WithAttributes(runTypeAttr(string(runType)), outcomeAttr(outcome)))
}

// RecordStatusView records the label of a reconciled status view.
func (m *Metrics) RecordStatusView(ctx context.Context, status string) {
	m.StatusViewsTotal.Add(ctx, 1, metric.WithAttributes(labelAttr(status)))
}

// RecordMonitor records how a monitor loop ended and how long it ran.
func (m *Metrics) RecordMonitor(ctx context.Context, outcome string, elapsed time.Duration) {
	m.MonitorDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(outcomeAttr(outcome)))
}

// StreamOpened records a status stream being opened.
func (m *Metrics) StreamOpened(ctx context.Context) {
	m.StreamsActive.Add(ctx, 1)
}

// StreamClosed records a status stream being closed.
func (m *Metrics) StreamClosed(ctx context.Context) {
	m.StreamsActive.Add(ctx, -1)
}
