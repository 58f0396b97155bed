package registry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

func okHandler(text string) Handler {
	return func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(text), nil
	}
}

func walletSchema() schema.Schema {
	return schema.New()
}

func TestBuilder_RegisterAndLookup(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("get-wallet-info", "Wallet balance", walletSchema(), okHandler("wallet")))

	reg := b.Build()
	def, ok := reg.Lookup("get-wallet-info")
	require.True(t, ok)
	assert.Equal(t, "Wallet balance", def.Description)

	res, err := def.Handler(context.Background(), schema.Args{})
	require.NoError(t, err)
	assert.Equal(t, "wallet", res.Content[0].(mcp.TextContent).Text)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestBuilder_DuplicateRejected(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("get-payment", "first", walletSchema(), okHandler("first")))

	err := b.Register("get-payment", "second", walletSchema(), okHandler("second"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateTool))

	def, _ := b.Build().Lookup("get-payment")
	assert.Equal(t, "first", def.Description)
}

func TestBuilder_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		def     ToolDefinition
		wantErr string
	}{
		{
			name:    "empty name",
			def:     ToolDefinition{Name: "  ", Handler: okHandler("x")},
			wantErr: "tool name is empty",
		},
		{
			name:    "whitespace",
			def:     ToolDefinition{Name: " get-charge", Handler: okHandler("x")},
			wantErr: "surrounding whitespace",
		},
		{
			name:    "nil handler",
			def:     ToolDefinition{Name: "get-charge"},
			wantErr: "handler is nil",
		},
		{
			name: "malformed schema",
			def: ToolDefinition{
				Name:    "get-charge",
				Handler: okHandler("x"),
				Schema:  schema.New(schema.Field{Name: "id", Kind: "uuid"}),
			},
			wantErr: `unknown kind "uuid"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			err := b.Add(tt.def)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Equal(t, 0, b.Len())
		})
	}
}

func TestRegistry_ListOrderAndStability(t *testing.T) {
	b := NewBuilder()
	names := []string{"send-payment", "get-payment", "decode-charge"}
	for _, n := range names {
		require.NoError(t, b.Register(n, n+" description", walletSchema(), okHandler(n)))
	}
	reg := b.Build()

	assert.Equal(t, names, reg.Names())
	assert.Equal(t, 3, reg.Len())

	first, err := json.Marshal(reg.List())
	require.NoError(t, err)
	second, err := json.Marshal(reg.List())
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))

	list := reg.List()
	assert.Equal(t, "decode-charge", list[2].Name)
	assert.Equal(t, "decode-charge description", list[2].Description)
}

func TestRegistry_ImmutableAfterBuild(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("get-voucher", "", walletSchema(), okHandler("v")))
	reg := b.Build()

	require.NoError(t, b.Register("redeem-voucher", "", walletSchema(), okHandler("r")))

	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Lookup("redeem-voucher")
	assert.False(t, ok)

	list := reg.List()
	list[0].Name = "mutated"
	assert.Equal(t, []string{"get-voucher"}, reg.Names())
}

func TestRegistry_InfoExportsSchema(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(ToolDefinition{
		Name:        "get-charge",
		Description: "Get a charge",
		Schema:      schema.New(schema.Field{Name: "chargeId", Kind: schema.KindString, Required: true}),
		Handler:     okHandler("c"),
		ReadOnly:    true,
	}))

	raw, err := json.Marshal(b.Build().List()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "get-charge",
		"description": "Get a charge",
		"readOnly": true,
		"inputSchema": {
			"type": "object",
			"properties": {"chargeId": {"type": "string"}},
			"required": ["chargeId"]
		}
	}`, string(raw))
}
