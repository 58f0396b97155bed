package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns Metrics backed by a manual reader so tests can
// inspect what was recorded.
func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailedLabels)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

// counterValue sums the data points of an Int64 sum whose attributes include want.
func counterValue(t *testing.T, data metricdata.Aggregation, want ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		matches := true
		for _, kv := range want {
			v, found := dp.Attributes.Value(kv.Key)
			if !found || v != kv.Value {
				matches = false
				break
			}
		}
		if matches {
			total += dp.Value
		}
	}
	return total
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	metrics, reader := newTestMetrics(t, false)
	ctx := context.Background()

	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)

	data := collect(t, reader)
	if got := counterValue(t, data["http_requests_total"], attribute.String("status", "500")); got != 1 {
		t.Errorf("http_requests_total{status=500} = %d, want 1", got)
	}
	if _, ok := data["http_request_duration_seconds"]; !ok {
		t.Error("expected http_request_duration_seconds to be recorded")
	}
}

func TestMetrics_RecordZBDRequest(t *testing.T) {
	metrics, reader := newTestMetrics(t, false)
	ctx := context.Background()

	metrics.RecordZBDRequest(ctx, "POST", "payments", 200, 200*time.Millisecond)
	metrics.RecordZBDRequest(ctx, "POST", "payments", 400, 100*time.Millisecond)
	metrics.RecordZBDRequest(ctx, "GET", "wallet", 0, time.Second)

	data := collect(t, reader)
	total := data["zbd_api_requests_total"]
	if got := counterValue(t, total, attribute.String("endpoint", "payments")); got != 2 {
		t.Errorf("zbd_api_requests_total{endpoint=payments} = %d, want 2", got)
	}
	if got := counterValue(t, total, attribute.String("status", "4xx")); got != 1 {
		t.Errorf("zbd_api_requests_total{status=4xx} = %d, want 1", got)
	}
	if got := counterValue(t, total, attribute.String("status", "transport_error")); got != 1 {
		t.Errorf("zbd_api_requests_total{status=transport_error} = %d, want 1", got)
	}
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	metrics, reader := newTestMetrics(t, false)
	ctx := context.Background()

	metrics.RecordToolInvocation(ctx, "get-wallet-info", StatusSuccess, 100*time.Millisecond)
	metrics.RecordToolInvocationWithRecipient(ctx, "send-lightning-payment", StatusError, "alice@zbd.gg", time.Second)

	data := collect(t, reader)
	if got := counterValue(t, data["mcp_tool_invocations_total"], attribute.String("tool", "send-lightning-payment")); got != 1 {
		t.Errorf("mcp_tool_invocations_total{tool=send-lightning-payment} = %d, want 1", got)
	}
	if got := counterValue(t, data["mcp_tool_invocations_total"], attribute.String("recipient_domain", "zbd.gg")); got != 0 {
		t.Errorf("recipient_domain label should be absent without detailed labels, got %d", got)
	}
}

func TestMetrics_RecordToolInvocation_DetailedLabels(t *testing.T) {
	metrics, reader := newTestMetrics(t, true)

	metrics.RecordToolInvocationWithRecipient(context.Background(), "send-lightning-payment", StatusSuccess, "alice@zbd.gg", time.Second)

	data := collect(t, reader)
	if got := counterValue(t, data["mcp_tool_invocations_total"], attribute.String("recipient_domain", "zbd.gg")); got != 1 {
		t.Errorf("mcp_tool_invocations_total{recipient_domain=zbd.gg} = %d, want 1", got)
	}
}

func TestMetrics_RecordBatch(t *testing.T) {
	metrics, reader := newTestMetrics(t, false)

	metrics.RecordBatch(context.Background(), "send-batch-lightning-payments", 2, 1)

	data := collect(t, reader)
	items := data["mcp_batch_items_total"]
	if got := counterValue(t, items, attribute.String("status", StatusSuccess)); got != 2 {
		t.Errorf("mcp_batch_items_total{status=success} = %d, want 2", got)
	}
	if got := counterValue(t, items, attribute.String("status", StatusError)); got != 1 {
		t.Errorf("mcp_batch_items_total{status=error} = %d, want 1", got)
	}

	hist, ok := data["mcp_batch_size"].(metricdata.Histogram[int64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Sum != 3 {
		t.Errorf("expected one mcp_batch_size observation of 3, got %+v", data["mcp_batch_size"])
	}
}

func TestMetrics_ActiveSessions(t *testing.T) {
	metrics, reader := newTestMetrics(t, false)
	ctx := context.Background()

	metrics.IncrementActiveSessions(ctx)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)

	if got := counterValue(t, collect(t, reader)["active_sessions"]); got != 1 {
		t.Errorf("active_sessions = %d, want 1", got)
	}
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil even when disabled")
	}

	// All these should not panic even with nil underlying metrics
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordZBDRequest(ctx, "GET", "wallet", 200, 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "get-wallet-info", StatusSuccess, 100*time.Millisecond)
	metrics.RecordBatch(ctx, "send-batch-lightning-payments", 1, 0)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{0: "transport_error", 200: "2xx", 204: "2xx", 302: "4xx", 404: "4xx", 503: "5xx"}
	for code, want := range tests {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", code, got, want)
		}
	}
}
