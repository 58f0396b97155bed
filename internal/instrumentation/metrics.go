package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod          = "method"
	attrPath            = "path"
	attrStatus          = "status"
	attrEndpoint        = "endpoint"
	attrTool            = "tool"
	attrRecipientDomain = "recipient_domain"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	// ZBD API metrics
	zbdRequestsTotal   metric.Int64Counter
	zbdRequestDuration metric.Float64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Batch metrics
	batchItemsTotal metric.Int64Counter
	batchSize       metric.Int64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active MCP sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	m.zbdRequestsTotal, err = meter.Int64Counter(
		"zbd_api_requests_total",
		metric.WithDescription("Total number of ZBD API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zbd_api_requests_total counter: %w", err)
	}

	m.zbdRequestDuration, err = meter.Float64Histogram(
		"zbd_api_request_duration_seconds",
		metric.WithDescription("ZBD API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zbd_api_request_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.batchItemsTotal, err = meter.Int64Counter(
		"mcp_batch_items_total",
		metric.WithDescription("Total number of batch items processed"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_batch_items_total counter: %w", err)
	}

	m.batchSize, err = meter.Int64Histogram(
		"mcp_batch_size",
		metric.WithDescription("Number of items submitted per batch"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 8, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_batch_size histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordZBDRequest records one call to the ZBD API.
//
// Parameters:
//   - method: HTTP method
//   - endpoint: API path without the URL parameter (e.g. "payments", "ln-address/send-payment")
//   - statusCode: HTTP status, or 0 if no response was received
//   - duration: Time taken for the request
func (m *Metrics) RecordZBDRequest(ctx context.Context, method, endpoint string, statusCode int, duration time.Duration) {
	if m.zbdRequestsTotal == nil || m.zbdRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrEndpoint, endpoint),
		attribute.String(attrStatus, statusClass(statusCode)),
	}

	m.zbdRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.zbdRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "send-payment", "get-wallet-info")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithRecipient(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithRecipient records an MCP tool invocation with the
// recipient's domain, which is only attached when detailedLabels is enabled.
func (m *Metrics) RecordToolInvocationWithRecipient(ctx context.Context, toolName, status, recipient string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels {
		if domain := RecipientDomain(recipient); domain != "" {
			attrs = append(attrs, attribute.String(attrRecipientDomain, domain))
		}
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBatch records the size of a batch and the outcome of its items.
func (m *Metrics) RecordBatch(ctx context.Context, toolName string, succeeded, failed int) {
	if m.batchItemsTotal == nil || m.batchSize == nil {
		return // Instrumentation not initialized
	}

	tool := attribute.String(attrTool, toolName)
	m.batchSize.Record(ctx, int64(succeeded+failed), metric.WithAttributes(tool))
	if succeeded > 0 {
		m.batchItemsTotal.Add(ctx, int64(succeeded), metric.WithAttributes(tool, attribute.String(attrStatus, StatusSuccess)))
	}
	if failed > 0 {
		m.batchItemsTotal.Add(ctx, int64(failed), metric.WithAttributes(tool, attribute.String(attrStatus, StatusError)))
	}
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return // Instrumentation not initialized
	}

	m.activeSessions.Add(ctx, -1)
}

// statusClass collapses an HTTP status into a low-cardinality label.
func statusClass(code int) string {
	switch {
	case code == 0:
		return "transport_error"
	case code < 300:
		return "2xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
