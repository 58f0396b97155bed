// Package logging provides structured logging utilities for zbd-mcp.
//
// Logging goes through the standard library's slog package. This package
// keeps attribute names consistent and makes sure payment recipients and the
// API key never reach the logs in clear text.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "send-lightning-payment")
//	logger.Info("tool invoked", logging.Status(logging.StatusSuccess))
//
// Hash recipients before logging:
//
//	logger.Info("payment sent", logging.Recipient(lnAddress))
//
// # Security Considerations
//
//   - Lightning addresses, e-mails and gamertags are hashed, never logged raw
//   - The ZBD API key is only ever logged through SanitizeToken
//   - In stdio mode all output goes to stderr; stdout carries the protocol
package logging
