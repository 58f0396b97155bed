package wallet_tools

import (
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/common"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// Tool names
const (
	WalletInfoTool      = "get-wallet-info"
	SupportedRegionTool = "check-supported-region"
	IPAddressesTool     = "get-zbd-ip-addresses"
)

// RegisterWalletTools registers the wallet tools. All of them are
// read-only, so readOnly does not change the result.
func RegisterWalletTools(b *registry.Builder, sc *server.ServerContext, readOnly bool) error {
	return common.Register(b, sc, readOnly,
		registry.ToolDefinition{
			Name:        WalletInfoTool,
			Description: "Retrieve all data about a ZBD Project's Wallet",
			Schema:      schema.New(),
			Handler:     common.RequestHandler(sc, common.Get("wallet", "")),
			ReadOnly:    true,
		},
		registry.ToolDefinition{
			Name:        SupportedRegionTool,
			Description: "Verify if a user is coming from a supported region",
			Schema:      schema.New(common.Required("ipAddress", "IP address to check")),
			Handler:     common.RequestHandler(sc, common.Get("is-supported-region", "ipAddress")),
			ReadOnly:    true,
		},
		registry.ToolDefinition{
			Name:        IPAddressesTool,
			Description: "Get the official IP addresses of ZBD servers",
			Schema:      schema.New(),
			Handler:     common.RequestHandler(sc, common.Get("prod-ips", "")),
			ReadOnly:    true,
		},
	)
}
