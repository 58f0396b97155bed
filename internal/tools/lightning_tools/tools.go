package lightning_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zbdpay/zbd-mcp/internal/logging"
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/batch"
	"github.com/zbdpay/zbd-mcp/internal/tools/common"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// Tool names
const (
	SendPaymentTool      = "send-lightning-payment"
	SendBatchPaymentTool = "send-batch-lightning-payments"
	CreateChargeTool     = "create-lightning-charge"
	ValidateAddressTool  = "validate-lightning-address"
)

// correlationField identifies each batch item in the rendered summary.
const correlationField = "lnAddress"

var errNoDispatcher = errors.New("dispatcher is not configured")

// paymentFields are shared by the single payment tool and each batch item.
func paymentFields() []schema.Field {
	return []schema.Field{
		common.Required("lnAddress", "Lightning Address of the recipient (e.g. andre@zbd.gg)"),
		common.Amount("Amount in millisatoshis"),
		common.Optional("comment", "Optional note or description"),
		common.Optional("internalId", "Optional metadata string"),
	}
}

// RegisterLightningTools registers the Lightning Address tools. In
// read-only mode only validate-lightning-address is registered.
func RegisterLightningTools(b *registry.Builder, sc *server.ServerContext, readOnly bool) error {
	sendFields := append(paymentFields(),
		common.Optional("callbackUrl", "Optional callback URL for payment updates"))
	itemSchema := schema.New(paymentFields()...)

	return common.Register(b, sc, readOnly,
		registry.ToolDefinition{
			Name:        SendPaymentTool,
			Description: "Send a Bitcoin Lightning Network payment to a Lightning Address using ZBD",
			Schema:      schema.New(sendFields...),
			Handler:     common.RequestHandler(sc, common.Payment("ln-address/send-payment")),
		},
		registry.ToolDefinition{
			Name:        SendBatchPaymentTool,
			Description: "Send multiple Bitcoin Lightning Network payments to Lightning Addresses in a single request",
			Schema: schema.New(schema.Field{
				Name:        common.BatchField,
				Kind:        schema.KindArray,
				Required:    true,
				Description: fmt.Sprintf("Array of payment requests (maximum %d)", batch.DefaultMaxItems),
				MaxItems:    schema.Int(batch.DefaultMaxItems),
				Items:       &itemSchema,
			}),
			Handler: sendBatchPayments(sc),
		},
		registry.ToolDefinition{
			Name:        CreateChargeTool,
			Description: "Generate a payment request for a Lightning Address",
			Schema: schema.New(
				common.Required("lnaddress", "The Lightning Address of the intended recipient"),
				common.Amount("The amount for the Charge -> in millisatoshis"),
				common.Optional("description", "Note or comment of this Charge"),
			),
			Handler: common.RequestHandler(sc, common.Payment("ln-address/fetch-charge")),
		},
		registry.ToolDefinition{
			Name:        ValidateAddressTool,
			Description: "Verify the validity of a Lightning Address",
			Schema: schema.New(
				common.Required("address", "Lightning Address to be verified (e.g. user@domain.com)"),
			),
			Handler:  common.RequestHandler(sc, common.Get("ln-address/validate", "address")),
			ReadOnly: true,
		},
	)
}

// sendBatchPayments pays every item through send-lightning-payment, one at
// a time, and reports each outcome under the item's lightning address.
func sendBatchPayments(sc *server.ServerContext) registry.Handler {
	return func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error) {
		items, err := batch.ItemsFromArgs(args, common.BatchField)
		if err != nil {
			return nil, err
		}

		d := sc.Dispatcher()
		if d == nil {
			return nil, errNoDispatcher
		}

		opts := batch.Options{MaxItems: sc.MaxBatchItems(), CorrelationField: correlationField}
		summary, err := batch.Process(ctx, items, opts, func(ctx context.Context, _ int, item schema.Args) (*mcp.CallToolResult, error) {
			return d.Call(ctx, SendPaymentTool, map[string]any(item))
		})
		if err != nil {
			return nil, err
		}

		if metrics := sc.Metrics(); metrics != nil {
			metrics.RecordBatch(ctx, SendBatchPaymentTool, summary.Succeeded(), summary.Failed())
		}
		sc.Logger().Info("batch processed",
			logging.Tool(SendBatchPaymentTool),
			logging.BatchSize(summary.TotalCount),
			"succeeded", summary.Succeeded(),
			"failed", summary.Failed())

		text, err := summary.Render("totalPayments", correlationField)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(text), nil
	}
}
