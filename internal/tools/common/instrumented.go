package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zbdpay/zbd-mcp/internal/instrumentation"
	"github.com/zbdpay/zbd-mcp/internal/logging"
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/tools/schema"
)

// InstrumentedHandler wraps a tool handler with a tool span, metrics and
// audit logging. Every invocation gets its own id, shared by the span, the
// audit record and the debug log.
//
// Usage:
//
//	def.Handler = common.InstrumentedHandler(def.Name, sc, def.ReadOnly, def.Handler)
func InstrumentedHandler(toolName string, sc *server.ServerContext, readOnly bool, handler registry.Handler) registry.Handler {
	return func(ctx context.Context, args schema.Args) (*mcp.CallToolResult, error) {
		recipient := RecipientFromArgs(args)
		invocation := instrumentation.NewToolInvocation(toolName).
			WithRecipient(recipient).
			WithReadOnly(readOnly)
		if n := BatchSizeFromArgs(args); n > 0 {
			invocation.WithBatchSize(n)
		}

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithInvocationID(invocation.ID).
			WithRecipient(recipient).
			WithReadOnly(readOnly)
		if invocation.BatchSize > 0 {
			attrs.WithBatchSize(invocation.BatchSize)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs.Build()...)
		defer span.End()
		invocation.WithSpanContext(ctx)

		logger := logging.WithTool(sc.Logger(), toolName).With(logging.InvocationID(invocation.ID))
		logger.Debug("tool invoked", logging.Recipient(recipient))

		start := time.Now()
		result, err := handler(ctx, args)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
				instrumentation.SetSpanError(span, err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics := sc.Metrics(); metrics != nil {
			metrics.RecordToolInvocationWithRecipient(ctx, toolName, status, recipient, duration)
		}
		if auditLogger := sc.AuditLogger(); auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		logger.Debug("tool completed", logging.Status(status), logging.Err(err), "duration", duration)
		return result, err
	}
}
