package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/zbdpay/zbd-mcp/internal/tools/dispatch"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
)

// BindTools adds one MCP tool per registry entry to s. Every call goes
// through d, so validation and error normalization are the dispatcher's.
// Errors d reports as protocol errors (unknown tool, invalid arguments,
// hard handler failures) are returned to mcp-go, which answers with a
// JSON-RPC error.
func BindTools(s *mcpserver.MCPServer, reg *registry.Registry, d *dispatch.Dispatcher) error {
	for _, info := range reg.List() {
		raw, err := json.Marshal(info.Schema)
		if err != nil {
			return fmt.Errorf("failed to encode input schema of %s: %w", info.Name, err)
		}

		tool := mcp.NewToolWithRawSchema(info.Name, info.Description, raw)
		if info.ReadOnly {
			tool.Annotations.ReadOnlyHint = mcp.ToBoolPtr(true)
			tool.Annotations.DestructiveHint = mcp.ToBoolPtr(false)
		}

		name := info.Name
		s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return d.Invoke(ctx, name, request.GetArguments())
		})
	}
	return nil
}
