// Package lightning_tools provides the Lightning Address tools: single and
// batch payments, charges and address validation.
//
// The batch tool re-enters the dispatcher for every item, so each payment
// is validated, audited and metered exactly like a direct
// send-lightning-payment call.
package lightning_tools
