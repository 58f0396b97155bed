package common

import "github.com/zbdpay/zbd-mcp/internal/tools/schema"

// recipientFields are the argument names that identify who receives funds,
// in priority order.
var recipientFields = []string{"lnAddress", "lnaddress", "gamertag", "email", "receiverWalletId", "address"}

// RecipientFromArgs returns the payment recipient named in the validated
// arguments (lightning address, gamertag, e-mail or wallet id), or "" if
// the tool has none. For batches the first item's recipient is used.
func RecipientFromArgs(args schema.Args) string {
	for _, field := range recipientFields {
		if v := args.String(field); v != "" {
			return v
		}
	}
	if items, err := args.Objects(BatchField); err == nil && len(items) > 0 {
		return RecipientFromArgs(items[0])
	}
	return ""
}

// BatchSizeFromArgs returns the number of items submitted to a batch tool,
// or 0 for other tools.
func BatchSizeFromArgs(args schema.Args) int {
	items, err := args.Objects(BatchField)
	if err != nil {
		return 0
	}
	return len(items)
}
