// Package wallet_tools provides read-only tools about the project wallet
// and the ZBD service itself.
package wallet_tools
