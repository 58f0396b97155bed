package common

import (
	"fmt"

	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
)

// Register adds defs to b with instrumented handlers. In read-only mode
// only tools marked ReadOnly are registered.
func Register(b *registry.Builder, sc *server.ServerContext, readOnly bool, defs ...registry.ToolDefinition) error {
	for _, def := range defs {
		if readOnly && !def.ReadOnly {
			continue
		}
		def.Handler = InstrumentedHandler(def.Name, sc, def.ReadOnly, def.Handler)
		if err := b.Add(def); err != nil {
			return fmt.Errorf("failed to register %s: %w", def.Name, err)
		}
	}
	return nil
}
