package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// ErrDuplicateTool is returned when a tool name is registered twice.
var ErrDuplicateTool = errors.New("tool already registered")

// Handler executes a tool with arguments that already passed schema validation.
type Handler func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error)

// ToolDefinition is a named, schema-described operation.
type ToolDefinition struct {
	Name        string
	Description string
	Schema      schema.Schema
	Handler     Handler

	// ReadOnly marks tools that never move funds or create resources.
	ReadOnly bool
}

// Info is the externally visible part of a ToolDefinition.
type Info struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Schema      schema.Schema `json:"inputSchema"`
	ReadOnly    bool          `json:"readOnly,omitempty"`
}

// Builder collects tool definitions during startup.
type Builder struct {
	defs  []ToolDefinition
	index map[string]int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Register adds a tool. See Add.
func (b *Builder) Register(name, description string, s schema.Schema, handler Handler) error {
	return b.Add(ToolDefinition{
		Name:        name,
		Description: description,
		Schema:      s,
		Handler:     handler,
	})
}

// Add adds a tool definition. It fails if the name is empty or already
// taken, the handler is nil, or the schema is malformed.
func (b *Builder) Add(def ToolDefinition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if name != def.Name {
		return fmt.Errorf("tool name %q has surrounding whitespace", def.Name)
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q: handler is nil", name)
	}
	if _, exists := b.index[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	if err := def.Schema.Check(); err != nil {
		return fmt.Errorf("tool %q: %w", name, err)
	}
	if _, err := def.Schema.Compile(); err != nil {
		return fmt.Errorf("tool %q: %w", name, err)
	}

	b.index[name] = len(b.defs)
	b.defs = append(b.defs, def)
	return nil
}

// Len returns the number of tools added so far.
func (b *Builder) Len() int {
	return len(b.defs)
}

// Build returns an immutable registry holding every tool added so far.
func (b *Builder) Build() *Registry {
	defs := make([]ToolDefinition, len(b.defs))
	copy(defs, b.defs)
	index := make(map[string]int, len(b.index))
	for k, v := range b.index {
		index[k] = v
	}
	return &Registry{defs: defs, index: index}
}

// Registry is the fixed set of tools a server exposes. It has no mutating
// methods and is safe for concurrent use.
type Registry struct {
	defs  []ToolDefinition
	index map[string]int
}

// Lookup returns the tool named name.
func (r *Registry) Lookup(name string) (ToolDefinition, bool) {
	i, ok := r.index[name]
	if !ok {
		return ToolDefinition{}, false
	}
	return r.defs[i], true
}

// List returns every tool in registration order.
func (r *Registry) List() []Info {
	out := make([]Info, len(r.defs))
	for i, d := range r.defs {
		out[i] = Info{
			Name:        d.Name,
			Description: d.Description,
			Schema:      d.Schema,
			ReadOnly:    d.ReadOnly,
		}
	}
	return out
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Name
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.defs)
}
