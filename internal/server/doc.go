// Package server binds the zbd-mcp tool set to an MCP transport and hosts
// the HTTP endpoints around it.
//
// # Key Components
//
// ServerContext holds what tool handlers need at call time: the ZBD client,
// the dispatcher (bound after the registry is built), metrics, the audit
// logger and the batch capacity.
//
// BindTools adds one mcp-go tool per registry entry, advertising the
// registry's JSON Schema and routing every call through the dispatcher.
//
// HTTPServer serves the streamable HTTP transport on /mcp next to the
// Kubernetes probes of HealthChecker (/healthz, /readyz, /healthz/detailed).
// MetricsServer exposes Prometheus metrics on a dedicated port.
//
// SessionTracker follows client sessions through the MCP server hooks and
// drives the active_sessions gauge.
package server
