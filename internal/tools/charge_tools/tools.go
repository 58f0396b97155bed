package charge_tools

import (
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/common"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// Tool names
const (
	CreateChargeTool     = "create-charge"
	GetChargeTool        = "get-charge"
	CreateWithdrawalTool = "create-withdrawal-request"
	GetWithdrawalTool    = "get-withdrawal-request"
)

// RegisterChargeTools registers the charge and withdrawal request tools.
func RegisterChargeTools(b *registry.Builder, sc *server.ServerContext, readOnly bool) error {
	return common.Register(b, sc, readOnly,
		registry.ToolDefinition{
			Name:        CreateChargeTool,
			Description: "Create a new Bitcoin Lightning Network charge",
			Schema: schema.New(
				common.Amount("The amount for the Charge -> in millisatoshis"),
				common.Required("description", "Note or comment for this Charge (visible to payer)"),
				common.ExpiresIn("Time until Charge expiration -> in seconds"),
				common.Optional("callbackUrl", "The endpoint ZBD will POST Charge updates to"),
				common.Optional("internalId", "Open metadata string property"),
			),
			Handler: common.RequestHandler(sc, common.Payment("charges")),
		},
		registry.ToolDefinition{
			Name:        GetChargeTool,
			Description: "Retrieve all data about a single Charge",
			Schema:      schema.New(common.Required("id", "Charge ID")),
			Handler:     common.RequestHandler(sc, common.Get("charges", "id")),
			ReadOnly:    true,
		},
		registry.ToolDefinition{
			Name:        CreateWithdrawalTool,
			Description: "Create a Bitcoin withdrawal QR code",
			Schema: schema.New(
				common.Amount("The amount for the Withdrawal Request -> in millisatoshis"),
				common.Optional("description", "Note or comment for this Withdrawal Request"),
				common.ExpiresIn("Time until Withdrawal Request expiration -> in seconds"),
				common.Optional("internalId", "Open metadata string property"),
				common.Optional("callbackUrl", "The endpoint ZBD will POST updates to"),
			),
			Handler: common.RequestHandler(sc, common.Payment("withdrawal-requests")),
		},
		registry.ToolDefinition{
			Name:        GetWithdrawalTool,
			Description: "Retrieve all data about a single Withdrawal Request",
			Schema:      schema.New(common.Required("id", "Withdrawal Request ID")),
			Handler:     common.RequestHandler(sc, common.Get("withdrawal-requests", "id")),
			ReadOnly:    true,
		},
	)
}
