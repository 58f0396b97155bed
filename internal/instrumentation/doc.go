// Package instrumentation provides OpenTelemetry instrumentation for the
// zbd-mcp server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, tool invocations and ZBD API calls
//   - Distributed tracing for tool invocations and backend requests
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - Audit records for every tool invocation
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active MCP sessions
//
// ZBD API Metrics:
//   - zbd_api_requests_total: Counter of ZBD API requests by method, endpoint and status class
//   - zbd_api_request_duration_seconds: Histogram of ZBD API request durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//   - mcp_batch_items_total: Counter of batch items by tool and status
//   - mcp_batch_size: Histogram of submitted batch sizes
//
// # Tracing
//
// Spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - ZBD API calls (zbd.<method>.<endpoint>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: zbd-mcp)
//   - METRICS_DETAILED_LABELS: Add the recipient domain to tool metrics
//
// The stdout exporters write to stderr so they never corrupt the stdio transport.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "zbd-mcp",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordZBDRequest(ctx, "POST", "payments", 200, time.Since(start))
//	recorder.RecordToolInvocation(ctx, "send-payment", "success", time.Since(start))
package instrumentation
