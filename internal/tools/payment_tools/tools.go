package payment_tools

import (
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/common"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// Tool names
const (
	SendPaymentTool      = "send-payment"
	GetPaymentTool       = "get-payment"
	DecodeChargeTool     = "decode-charge"
	SendEmailPaymentTool = "send-email-payment"
	InternalTransferTool = "internal-transfer"
)

// RegisterPaymentTools registers the payment tools.
func RegisterPaymentTools(b *registry.Builder, sc *server.ServerContext, readOnly bool) error {
	// Amountless invoices take the amount from the caller, everything else
	// carries it in the invoice.
	optionalAmount := common.Optional(common.AmountField,
		"Amount to be paid to this Charge/Invoice -> in millisatoshis (only valid if Amountless Invoice)")

	return common.Register(b, sc, readOnly,
		registry.ToolDefinition{
			Name:        SendPaymentTool,
			Description: "Send a Bitcoin Lightning Network payment",
			Schema: schema.New(
				common.Required("invoice", "Lightning Network Payment Request / Charge"),
				common.Optional("description", "Note or comment for this Payment"),
				optionalAmount,
				common.Optional("internalId", "Open metadata string property"),
				common.Optional("callbackUrl", "The endpoint ZBD will POST Payment updates to"),
			),
			Handler: common.RequestHandler(sc, common.Payment("payments")),
		},
		registry.ToolDefinition{
			Name:        GetPaymentTool,
			Description: "Retrieve all data about a single Payment",
			Schema:      schema.New(common.Required("id", "Payment ID")),
			Handler:     common.RequestHandler(sc, common.Get("payments", "id")),
			ReadOnly:    true,
		},
		registry.ToolDefinition{
			Name:        DecodeChargeTool,
			Description: "Understand the inner properties of a Charge QR code",
			Schema:      schema.New(common.Required("invoice", "The Charge or Invoice QR code contents")),
			Handler:     common.RequestHandler(sc, common.Post("decode-invoice")),
			ReadOnly:    true,
		},
		registry.ToolDefinition{
			Name:        SendEmailPaymentTool,
			Description: "Send instant Bitcoin payments to any email",
			Schema: schema.New(
				common.Required("email", "The Email of the intended recipient (e.g. info@zebedee.io)"),
				common.Amount("The amount for the Payment -> in millisatoshis"),
				common.Required("comment", "Note / description of this Payment (may be shown to recipient)"),
			),
			Handler: common.RequestHandler(sc, common.Payment("email/send-payment")),
		},
		registry.ToolDefinition{
			Name:        InternalTransferTool,
			Description: "Performs a transfer of funds between two Projects",
			Schema: schema.New(
				common.Amount("The amount to be transferred -> in millisatoshis"),
				common.Required("receiverWalletId", "The Wallet ID of the recipient Project"),
			),
			Handler: common.RequestHandler(sc, common.Payment("internal-transfer")),
		},
	)
}
