package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/zbdpay/zbd-mcp/internal/tools/dispatch"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

func newBoundServer(t *testing.T) *mcpserver.MCPServer {
	t.Helper()

	b := registry.NewBuilder()
	require.NoError(t, b.Add(registry.ToolDefinition{
		Name:        "echo",
		Description: "Echo a message",
		Schema: schema.New(schema.Field{
			Name:     "message",
			Kind:     schema.KindString,
			Required: true,
		}),
		ReadOnly: true,
		Handler: func(_ context.Context, args schema.Args) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(args.String("message")), nil
		},
	}))
	require.NoError(t, b.Register("boom", "Always fails", schema.New(),
		func(context.Context, schema.Args) (*mcp.CallToolResult, error) {
			return nil, errors.New("backend unavailable")
		}))

	reg := b.Build()
	s := mcpserver.NewMCPServer("zbd-mcp-test", "1.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, BindTools(s, reg, dispatch.New(reg)))
	return s
}

func handle(t *testing.T, s *mcpserver.MCPServer, request string) gjson.Result {
	t.Helper()
	resp := s.HandleMessage(context.Background(), json.RawMessage(request))
	require.NotNil(t, resp)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	return gjson.ParseBytes(raw)
}

func TestBindTools_List(t *testing.T) {
	s := newBoundServer(t)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)

	tools := resp.Get("result.tools").Array()
	require.Len(t, tools, 2)

	byName := map[string]gjson.Result{}
	for _, tool := range tools {
		byName[tool.Get("name").String()] = tool
	}
	echo := byName["echo"]
	assert.Equal(t, "Echo a message", echo.Get("description").String())
	assert.Equal(t, "string", echo.Get("inputSchema.properties.message.type").String())
	assert.Equal(t, "message", echo.Get("inputSchema.required.0").String())
	assert.True(t, echo.Get("annotations.readOnlyHint").Bool())
}

func TestBindTools_Call(t *testing.T) {
	s := newBoundServer(t)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi","extra":1}}}`)

	assert.False(t, resp.Get("error").Exists(), resp.Raw)
	assert.Equal(t, "text", resp.Get("result.content.0.type").String())
	assert.Equal(t, "hi", resp.Get("result.content.0.text").String())
}

func TestBindTools_InvalidArguments(t *testing.T) {
	s := newBoundServer(t)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{}}}`)

	require.True(t, resp.Get("error").Exists(), resp.Raw)
	assert.Contains(t, resp.Get("error.message").String(), "message")
}

func TestBindTools_HandlerErrorIsInBand(t *testing.T) {
	s := newBoundServer(t)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"boom","arguments":{}}}`)

	assert.False(t, resp.Get("error").Exists(), resp.Raw)
	assert.Equal(t, "Error: backend unavailable", resp.Get("result.content.0.text").String())
}

func TestBindTools_UnknownTool(t *testing.T) {
	s := newBoundServer(t)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope","arguments":{}}}`)

	assert.True(t, resp.Get("error").Exists(), resp.Raw)
}
