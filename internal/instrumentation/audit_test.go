package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/zbdpay/zbd-mcp/internal/logging"
)

// Test constants to reduce string repetition and satisfy goconst
const (
	testRecipient = "alice@zbd.gg"
	testDomain    = "zbd.gg"
	testTraceID   = "abc123def456"
	testToolPay   = "send-lightning-payment"
	testToolBatch = "send-batch-lightning-payments"
	testToolRead  = "get-wallet-info"
)

func attrsByKey(attrs []slog.Attr) map[string]slog.Attr {
	m := make(map[string]slog.Attr, len(attrs))
	for _, attr := range attrs {
		m[attr.Key] = attr
	}
	return m
}

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolPay)

	if ti.Tool != testToolPay {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolPay)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}
	if len(ti.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", ti.ID)
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
}

func TestToolInvocation_UniqueIDs(t *testing.T) {
	if NewToolInvocation("a").ID == NewToolInvocation("a").ID {
		t.Error("each invocation should get its own ID")
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolPay).CompleteWithError(errors.New("insufficient balance"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "insufficient balance" {
		t.Errorf("Error = %q, want %q", ti.Error, "insufficient balance")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_LogAttrs_AnonymizesRecipient(t *testing.T) {
	ti := NewToolInvocation(testToolPay).WithRecipient(testRecipient).CompleteSuccess()
	ti.TraceID = testTraceID

	attrMap := attrsByKey(ti.LogAttrs())

	for _, key := range []string{logging.KeyInvocationID, logging.KeyTool, "duration", "success", "trace_id"} {
		if _, ok := attrMap[key]; !ok {
			t.Errorf("Missing required attribute: %s", key)
		}
	}
	if domain := attrMap[logging.KeyRecipientDomain].Value.String(); domain != testDomain {
		t.Errorf("recipient_domain = %q, want %q", domain, testDomain)
	}
	if hash := attrMap[logging.KeyRecipientHash].Value.String(); hash != logging.AnonymizeAddress(testRecipient) {
		t.Errorf("recipient_hash = %q", hash)
	}
	if _, ok := attrMap["recipient"]; ok {
		t.Error("LogAttrs must not include the clear-text recipient")
	}
}

func TestToolInvocation_LogAttrs_MinimalFields(t *testing.T) {
	ti := NewToolInvocation(testToolRead).CompleteSuccess()

	attrs := ti.LogAttrs()
	if len(attrs) != 4 {
		t.Errorf("expected 4 attributes, got %d", len(attrs))
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolBatch).
		WithRecipient(testRecipient).
		WithBatchSize(3).
		CompleteWithError(errors.New("test error"))
	ti.SpanID = "span789"

	attrMap := attrsByKey(ti.LogAuditAttrs())

	if r := attrMap["recipient"].Value.String(); r != testRecipient {
		t.Errorf("recipient = %q, want %q", r, testRecipient)
	}
	if n := attrMap[logging.KeyBatchSize].Value.Int64(); n != 3 {
		t.Errorf("batch_size = %d, want 3", n)
	}
	if e := attrMap[logging.KeyError].Value.String(); e != "test error" {
		t.Errorf("error = %q, want %q", e, "test error")
	}
	if _, ok := attrMap["span_id"]; !ok {
		t.Error("Missing span_id")
	}
}

func TestToolInvocation_WithReadOnly(t *testing.T) {
	ti := NewToolInvocation(testToolRead).WithReadOnly(true).CompleteSuccess()

	if v, ok := attrsByKey(ti.LogAttrs())["read_only"]; !ok || !v.Value.Bool() {
		t.Error("expected read_only=true attribute")
	}
}

func TestAuditLogger_New(t *testing.T) {
	al := NewAuditLogger(nil)
	if al.logger == nil {
		t.Error("logger should not be nil when created with nil")
	}
	if !al.enabled || al.includePII {
		t.Error("default audit logger should be enabled without PII")
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	tests := []struct {
		name       string
		includePII bool
		success    bool
		wantLevel  string
		wantMsg    string
		wantClear  bool
	}{
		{"success anonymized", false, true, "INFO", "tool_executed", false},
		{"failure anonymized", false, false, "WARN", "tool_failed", false},
		{"success with PII", true, true, "INFO", "tool_executed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)), AuditLoggingConfig{
				Enabled:    true,
				IncludePII: tt.includePII,
			})

			ti := NewToolInvocation(testToolPay).WithRecipient(testRecipient)
			if tt.success {
				ti.CompleteSuccess()
			} else {
				ti.CompleteWithError(errors.New("failed"))
			}
			al.LogToolInvocation(ti)

			out := buf.String()
			if !strings.Contains(out, "level="+tt.wantLevel) {
				t.Errorf("expected level %s in %q", tt.wantLevel, out)
			}
			if !strings.Contains(out, tt.wantMsg) {
				t.Errorf("expected message %s in %q", tt.wantMsg, out)
			}
			if got := strings.Contains(out, testRecipient); got != tt.wantClear {
				t.Errorf("clear-text recipient present = %v, want %v", got, tt.wantClear)
			}
			if !strings.Contains(out, ti.ID) {
				t.Errorf("expected invocation id in %q", out)
			}
		})
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	al.SetEnabled(false)

	al.LogToolInvocation(NewToolInvocation(testToolPay).CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation("test").WithSpanContext(context.Background())

	if ti.TraceID != "" {
		t.Errorf("TraceID = %q, want empty string", ti.TraceID)
	}
	if ti.SpanID != "" {
		t.Errorf("SpanID = %q, want empty string", ti.SpanID)
	}
}
