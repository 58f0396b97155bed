package instrumentation

import (
	"strings"

	"github.com/zbdpay/zbd-mcp/internal/logging"
)

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// Always use these helpers when recording metrics with payment recipients
// or resource identifiers.

// RecipientDomain returns the domain of a lightning address or e-mail
// recipient. Recipients without a domain (gamertags, user ids) map to
// "unknown"; an empty recipient maps to "".
//
// Example:
//
//	RecipientDomain("alice@zbd.gg")  // "zbd.gg"
//	RecipientDomain("player1")       // "unknown"
//	RecipientDomain("")              // ""
func RecipientDomain(recipient string) string {
	if recipient == "" {
		return ""
	}
	if domain := logging.ExtractDomain(recipient); domain != "" {
		return domain
	}
	return StatusUnknown
}

// EndpointLabel normalizes a ZBD API path for use as a metric label. Only
// the static path is used; URL parameters (ids, addresses) never reach a label.
//
//	EndpointLabel("/ln-address/send-payment/")  // "ln-address/send-payment"
func EndpointLabel(path string) string {
	path = strings.Trim(strings.ToLower(path), "/")
	if path == "" {
		return StatusUnknown
	}
	return path
}
