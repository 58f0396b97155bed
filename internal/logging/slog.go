package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation       = "operation"
	KeyTool            = "tool"
	KeyEndpoint        = "endpoint"
	KeyStatus          = "status"
	KeyError           = "error"
	KeyDuration        = "duration"
	KeyInvocationID    = "invocation_id"
	KeyRecipientHash   = "recipient_hash"
	KeyRecipientDomain = "recipient_domain"
	KeyBatchSize       = "batch_size"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Endpoint returns a slog attribute for a ZBD API path.
func Endpoint(path string) slog.Attr {
	return slog.String(KeyEndpoint, path)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// InvocationID returns a slog attribute for the id of one tool invocation.
func InvocationID(id string) slog.Attr {
	return slog.String(KeyInvocationID, id)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeAddress returns a hashed representation of a payment recipient
// (lightning address, e-mail, gamertag or user id). Log entries stay
// correlatable without exposing who was paid.
func AnonymizeAddress(address string) string {
	if address == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(strings.ToLower(address)))
	return "recipient:" + hex.EncodeToString(hash[:8])
}

// Recipient returns a slog attribute with the anonymized recipient.
func Recipient(address string) slog.Attr {
	return slog.String(KeyRecipientHash, AnonymizeAddress(address))
}

// SanitizeToken returns a masked version of a secret for logging.
// Only the length is shown, never a prefix.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// ExtractDomain returns the domain part of a lightning address or e-mail,
// or "" if address is not of the form user@domain.
func ExtractDomain(address string) string {
	user, domain, ok := strings.Cut(address, "@")
	if !ok || user == "" || domain == "" || strings.Contains(domain, "@") {
		return ""
	}
	return strings.ToLower(domain)
}

// RecipientDomain returns a slog attribute for the recipient domain
// (lower cardinality than the full address).
func RecipientDomain(address string) slog.Attr {
	return slog.String(KeyRecipientDomain, ExtractDomain(address))
}

// BatchSize returns a slog attribute for the number of items in a batch.
func BatchSize(n int) slog.Attr {
	return slog.Int(KeyBatchSize, n)
}
