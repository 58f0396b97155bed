package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/zbdpay/zbd-mcp/internal/instrumentation"
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

func newTestContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc := server.NewServerContext(context.Background(), nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestInstrumentedHandler_Success(t *testing.T) {
	sc := newTestContext(t)

	called := false
	handler := func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	result, err := InstrumentedHandler("test-tool", sc, true, handler)(context.Background(), schema.Args{})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
}

func TestInstrumentedHandler_Error(t *testing.T) {
	sc := newTestContext(t)

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	_, err := InstrumentedHandler("test-tool", sc, false, handler)(context.Background(), schema.Args{})

	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestInstrumentedHandler_WithMetrics(t *testing.T) {
	sc := newTestContext(t)

	// Create metrics with noop meter (for testing)
	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	sc.SetMetrics(metrics)

	handler := func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{IsError: true}, nil
	}

	result, err := InstrumentedHandler("test-tool", sc, false, handler)(context.Background(), schema.Args{"lnAddress": "alice@zbd.gg"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("expected the handler's error result to pass through")
	}
}

func TestInstrumentedHandler_AuditLog(t *testing.T) {
	sc := newTestContext(t)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error) {
		return nil, errors.New("insufficient balance")
	}

	args := schema.Args{"lnAddress": "alice@zbd.gg", "amount": "1000"}
	_, _ = InstrumentedHandler("send-lightning-payment", sc, false, handler)(context.Background(), args)

	out := buf.String()
	for _, want := range []string{"tool_failed", "tool=send-lightning-payment", "recipient_domain=zbd.gg", "insufficient balance"} {
		if !strings.Contains(out, want) {
			t.Errorf("audit log missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "alice@zbd.gg") {
		t.Errorf("audit log must not contain the clear-text recipient:\n%s", out)
	}
}

func TestRecipientFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args schema.Args
		want string
	}{
		{name: "lightning address", args: schema.Args{"lnAddress": "alice@zbd.gg"}, want: "alice@zbd.gg"},
		{name: "charge address", args: schema.Args{"lnaddress": "bob@zbd.gg"}, want: "bob@zbd.gg"},
		{name: "gamertag", args: schema.Args{"gamertag": "player1"}, want: "player1"},
		{name: "email", args: schema.Args{"email": "info@zebedee.io"}, want: "info@zebedee.io"},
		{name: "wallet", args: schema.Args{"receiverWalletId": "w-1"}, want: "w-1"},
		{name: "batch uses first item", args: schema.Args{"payments": []any{schema.Args{"lnAddress": "carol@zbd.gg"}}}, want: "carol@zbd.gg"},
		{name: "none", args: schema.Args{"id": "p1"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecipientFromArgs(tt.args); got != tt.want {
				t.Errorf("RecipientFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBatchSizeFromArgs(t *testing.T) {
	args := schema.Args{"payments": []any{schema.Args{}, schema.Args{}}}
	if got := BatchSizeFromArgs(args); got != 2 {
		t.Errorf("BatchSizeFromArgs() = %d, want 2", got)
	}
	if got := BatchSizeFromArgs(schema.Args{}); got != 0 {
		t.Errorf("BatchSizeFromArgs() = %d, want 0", got)
	}
}
