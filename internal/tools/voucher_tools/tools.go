package voucher_tools

import (
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/common"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// Tool names
const (
	CreateVoucherTool = "create-voucher"
	GetVoucherTool    = "get-voucher"
	RedeemVoucherTool = "redeem-voucher"
	RevokeVoucherTool = "revoke-voucher"
)

// CodeLength is the length of a voucher code.
const CodeLength = 8

func codeField() schema.Field {
	return schema.Field{
		Name:        "code",
		Kind:        schema.KindString,
		Required:    true,
		Description: "Valid 8-digit ZBD Voucher Code",
		MinLength:   schema.Int(CodeLength),
		MaxLength:   schema.Int(CodeLength),
	}
}

// RegisterVoucherTools registers the voucher tools.
func RegisterVoucherTools(b *registry.Builder, sc *server.ServerContext, readOnly bool) error {
	return common.Register(b, sc, readOnly,
		registry.ToolDefinition{
			Name:        CreateVoucherTool,
			Description: "Create a single-use ZBD Voucher that can be redeemed by any ZBD user",
			Schema: schema.New(
				common.Amount("The amount for the Voucher -> in millisatoshis"),
				common.Optional("description", "Note or comment for this Voucher"),
			),
			Handler: common.RequestHandler(sc, common.Payment("create-voucher")),
		},
		registry.ToolDefinition{
			Name:        GetVoucherTool,
			Description: "Retrieve details about a ZBD Voucher",
			Schema:      schema.New(common.Required("id", "ID of the Voucher")),
			Handler:     common.RequestHandler(sc, common.Get("vouchers", "id")),
			ReadOnly:    true,
		},
		registry.ToolDefinition{
			Name:        RedeemVoucherTool,
			Description: "Redeem a ZBD Voucher to credit your Project wallet",
			Schema:      schema.New(codeField()),
			Handler:     common.RequestHandler(sc, common.Post("redeem-voucher")),
		},
		registry.ToolDefinition{
			Name:        RevokeVoucherTool,
			Description: "Revoke a valid ZBD Voucher and reclaim the sats to your Project wallet",
			Schema:      schema.New(codeField()),
			Handler:     common.RequestHandler(sc, common.Post("revoke-voucher")),
		},
	)
}
