// Package charge_tools provides tools for Lightning charges and
// withdrawal requests.
package charge_tools
