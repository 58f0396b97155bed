package gamertag_tools

import (
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/common"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// Tool names
const (
	SendPaymentTool  = "send-gamertag-payment"
	CreateChargeTool = "create-gamertag-charge"
	UserIDTool       = "get-userid-by-gamertag"
	GamertagTool     = "get-gamertag-by-userid"
)

// RegisterGamertagTools registers the gamertag tools. The lookups are
// read-only.
func RegisterGamertagTools(b *registry.Builder, sc *server.ServerContext, readOnly bool) error {
	return common.Register(b, sc, readOnly,
		registry.ToolDefinition{
			Name:        SendPaymentTool,
			Description: "Send a Bitcoin payment to a ZBD Gamertag",
			Schema: schema.New(
				common.Required("gamertag", "Destination ZBD Gamertag"),
				common.Amount("Amount in millisatoshis"),
				common.Required("description", "Note or comment for this Payment (visible to recipient)"),
			),
			Handler: common.RequestHandler(sc, common.Payment("gamertag/send-payment")),
		},
		registry.ToolDefinition{
			Name:        CreateChargeTool,
			Description: "Generate a payment request for a ZBD User",
			Schema: schema.New(
				common.Required("gamertag", "Destination ZBD Gamertag"),
				common.Amount("Amount in millisatoshis"),
				common.Optional("description", "Note or comment for this Payment (visible to recipient)"),
				common.ExpiresIn("Time until Charge expiration -> in seconds"),
				common.Optional("internalId", "Open metadata string property"),
				common.Optional("callbackUrl", "The endpoint ZBD will POST Charge updates to"),
			),
			Handler: common.RequestHandler(sc, common.Payment("gamertag/charges")),
		},
		registry.ToolDefinition{
			Name:        UserIDTool,
			Description: "Retrieve User ID from a ZBD Gamertag",
			Schema:      schema.New(common.Required("gamertag", "ZBD Gamertag")),
			Handler:     common.RequestHandler(sc, common.Get("user-id/gamertag", "gamertag")),
			ReadOnly:    true,
		},
		registry.ToolDefinition{
			Name:        GamertagTool,
			Description: "Retrieve ZBD Gamertag from a User ID",
			Schema:      schema.New(common.Required("id", "User ID")),
			Handler:     common.RequestHandler(sc, common.Get("gamertag/user-id", "id")),
			ReadOnly:    true,
		},
	)
}
