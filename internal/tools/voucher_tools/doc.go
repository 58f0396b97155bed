// Package voucher_tools provides tools to create, inspect, redeem and
// revoke single-use ZBD vouchers.
package voucher_tools
