package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zbdpay/zbd-mcp/internal/logging"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// Dispatcher routes invocations to registered tools.
type Dispatcher struct {
	registry *registry.Registry
	logger   logging.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for invocation records.
func WithLogger(logger logging.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New returns a dispatcher over reg.
func New(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher routes to.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Invoke runs the named tool with raw arguments.
//
// Unknown tools (*ToolNotFoundError) and invalid arguments
// (*schema.ValidationError) are returned as errors. A handler that fails or
// panics still produces a result, whose only content block is the text
// "Error: <message>". Handler errors for which IsHard reports true are
// returned as errors instead.
func (d *Dispatcher) Invoke(ctx context.Context, name string, raw map[string]any) (*mcp.CallToolResult, error) {
	result, err := d.Call(ctx, name, raw)

	var herr *HandlerError
	if errors.As(err, &herr) {
		if IsHard(herr.Err) {
			d.logger.Warn("tool rejected request", logging.Tool(name), logging.Err(herr.Err))
			return nil, herr.Err
		}
		d.logger.Warn("tool handler failed", logging.Tool(name), logging.Err(herr))
		return ErrorResult(herr), nil
	}
	return result, err
}

// Call runs the named tool like Invoke but returns handler failures as
// *HandlerError instead of turning them into a result.
func (d *Dispatcher) Call(ctx context.Context, name string, raw map[string]any) (*mcp.CallToolResult, error) {
	def, ok := d.registry.Lookup(name)
	if !ok {
		d.logger.Warn("unknown tool", logging.Tool(name))
		return nil, &ToolNotFoundError{Name: name}
	}

	args, err := schema.Validate(raw, def.Schema)
	if err != nil {
		d.logger.Debug("invalid tool arguments", logging.Tool(name), logging.Err(err))
		return nil, err
	}

	d.logger.Debug("invoking tool", logging.Tool(name))
	result, err := run(ctx, def.Handler, args)
	if err != nil {
		return nil, &HandlerError{Tool: name, Err: err}
	}
	return result, nil
}

func run(ctx context.Context, handler registry.Handler, args schema.Args) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	result, err = handler(ctx, args)
	if err == nil && result == nil {
		err = errNoResult
	}
	return result, err
}

// ErrorResult is the in-band result reported for a failed handler.
func ErrorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent("Error: " + err.Error())},
	}
}
