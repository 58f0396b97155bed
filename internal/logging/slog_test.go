package logging

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestWithOperation(t *testing.T) {
	if WithOperation(slog.Default(), "zbd.request") == nil {
		t.Error("WithOperation returned nil")
	}
}

func TestWithTool(t *testing.T) {
	if WithTool(slog.Default(), "send-payment") == nil {
		t.Error("WithTool returned nil")
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name     string
		attr     slog.Attr
		wantKey  string
		wantText string
	}{
		{"operation", Operation("serve"), KeyOperation, "serve"},
		{"tool", Tool("send-payment"), KeyTool, "send-payment"},
		{"endpoint", Endpoint("ln-address/send-payment"), KeyEndpoint, "ln-address/send-payment"},
		{"status", Status(StatusSuccess), KeyStatus, StatusSuccess},
		{"invocation id", InvocationID("abc"), KeyInvocationID, "abc"},
		{"recipient domain", RecipientDomain("alice@zbd.gg"), KeyRecipientDomain, "zbd.gg"},
		{"batch size", BatchSize(3), KeyBatchSize, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantText {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantText)
			}
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("test error"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	attr = Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string (empty group)", attr.Key)
	}
}

func TestAnonymizeAddress(t *testing.T) {
	tests := []struct {
		address string
		wantLen int
	}{
		{"alice@zbd.gg", 26}, // "recipient:" + 16 hex chars
		{"player123", 26},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			result := AnonymizeAddress(tt.address)
			if len(result) != tt.wantLen {
				t.Errorf("AnonymizeAddress(%q) length = %d, want %d", tt.address, len(result), tt.wantLen)
			}
			if tt.wantLen > 0 && !strings.HasPrefix(result, "recipient:") {
				t.Errorf("AnonymizeAddress(%q) should start with 'recipient:', got %q", tt.address, result)
			}
			if strings.Contains(result, "alice") {
				t.Errorf("AnonymizeAddress leaked the address: %q", result)
			}
		})
	}

	if AnonymizeAddress("Alice@ZBD.gg") != AnonymizeAddress("alice@zbd.gg") {
		t.Error("AnonymizeAddress should ignore case")
	}
	if AnonymizeAddress("alice@zbd.gg") == AnonymizeAddress("bob@zbd.gg") {
		t.Error("Different addresses should produce different hashes")
	}
}

func TestRecipient(t *testing.T) {
	attr := Recipient("alice@zbd.gg")
	if attr.Key != KeyRecipientHash {
		t.Errorf("Recipient key = %q, want %q", attr.Key, KeyRecipientHash)
	}
	if attr.Value.String() != AnonymizeAddress("alice@zbd.gg") {
		t.Errorf("Recipient value = %q", attr.Value.String())
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"", "<empty>"},
		{"abc123", "[token:6 chars]"},
		{"a_very_long_api_key_value", "[token:25 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.expected)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		address  string
		expected string
	}{
		{"alice@zbd.gg", "zbd.gg"},
		{"Bob@Example.COM", "example.com"},
		{"gamertag", ""},
		{"", ""},
		{"@", ""},
		{"user@", ""},
		{"a@b@c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			if got := ExtractDomain(tt.address); got != tt.expected {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.address, got, tt.expected)
			}
		})
	}
}
