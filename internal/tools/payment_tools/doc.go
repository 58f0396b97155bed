// Package payment_tools provides invoice payments, payment lookups, charge
// decoding, e-mail payments and internal transfers between projects.
package payment_tools
