package cmd

import (
	"fmt"

	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/charge_tools"
	"github.com/zbdpay/zbd-mcp/internal/tools/gamertag_tools"
	"github.com/zbdpay/zbd-mcp/internal/tools/lightning_tools"
	"github.com/zbdpay/zbd-mcp/internal/tools/payment_tools"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/voucher_tools"
	"github.com/zbdpay/zbd-mcp/internal/tools/wallet_tools"
)

type toolGroup struct {
	name     string
	register func(b *registry.Builder, sc *server.ServerContext, readOnly bool) error
}

// toolGroups lists every tool package in registration order.
var toolGroups = []toolGroup{
	{name: "Lightning Address", register: lightning_tools.RegisterLightningTools},
	{name: "Gamertag", register: gamertag_tools.RegisterGamertagTools},
	{name: "Payments", register: payment_tools.RegisterPaymentTools},
	{name: "Charges", register: charge_tools.RegisterChargeTools},
	{name: "Vouchers", register: voucher_tools.RegisterVoucherTools},
	{name: "Wallet", register: wallet_tools.RegisterWalletTools},
}

func registerAllTools(b *registry.Builder, sc *server.ServerContext, readOnly bool) error {
	for _, g := range toolGroups {
		if err := g.register(b, sc, readOnly); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", g.name, err)
		}
	}
	return nil
}
