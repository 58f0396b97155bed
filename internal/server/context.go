package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zbdpay/zbd-mcp/internal/instrumentation"
	"github.com/zbdpay/zbd-mcp/internal/tools/batch"
	"github.com/zbdpay/zbd-mcp/internal/tools/dispatch"
	"github.com/zbdpay/zbd-mcp/internal/zbd"
)

// ServerContext holds the context for the MCP server. Tool handlers capture
// it at registration time and resolve their collaborators on each call, so
// the dispatcher and instrumentation can be bound after the tools exist.
type ServerContext struct {
	ctx           context.Context
	cancel        context.CancelFunc
	zbdClient     *zbd.Client
	dispatcher    *dispatch.Dispatcher
	metrics       *instrumentation.Metrics
	auditLogger   *instrumentation.AuditLogger
	logger        *slog.Logger
	maxBatchItems int
	readOnly      bool
	mu            sync.RWMutex
	shutdown      bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithLogger sets the logger used by tool handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// WithMaxBatchItems sets the batch capacity. Values outside 1..batch.DefaultMaxItems are ignored.
func WithMaxBatchItems(n int) Option {
	return func(sc *ServerContext) {
		if n > 0 && n <= batch.DefaultMaxItems {
			sc.maxBatchItems = n
		}
	}
}

// WithReadOnly marks the server as running with read-only tools only.
func WithReadOnly(readOnly bool) Option {
	return func(sc *ServerContext) {
		sc.readOnly = readOnly
	}
}

// NewServerContext creates a new server context. client may be nil when
// the tool set is only listed (generate-docs); handlers then fail on use.
func NewServerContext(ctx context.Context, client *zbd.Client, opts ...Option) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		zbdClient:     client,
		logger:        slog.Default(),
		maxBatchItems: batch.DefaultMaxItems,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// ZBDClient returns the ZBD API client, or nil if none is configured
func (sc *ServerContext) ZBDClient() *zbd.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.zbdClient
}

// SetZBDClient replaces the ZBD API client
func (sc *ServerContext) SetZBDClient(client *zbd.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.zbdClient = client
}

// Dispatcher returns the dispatcher bound to the registry, or nil before
// SetDispatcher is called.
func (sc *ServerContext) Dispatcher() *dispatch.Dispatcher {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.dispatcher
}

// SetDispatcher binds the dispatcher. The registry is built from handlers
// that capture sc, so the dispatcher can only exist afterwards.
func (sc *ServerContext) SetDispatcher(d *dispatch.Dispatcher) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.dispatcher = d
}

// Metrics returns the metrics recorder, or nil if instrumentation is off
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil if audit logging is off
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
}

// Logger returns the logger for tool handlers
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// MaxBatchItems returns the maximum number of items a batch tool accepts
func (sc *ServerContext) MaxBatchItems() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.maxBatchItems
}

// ReadOnly reports whether only read-only tools are exposed
func (sc *ServerContext) ReadOnly() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.readOnly
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
