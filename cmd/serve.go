package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/zbdpay/zbd-mcp/internal/config"
	"github.com/zbdpay/zbd-mcp/internal/instrumentation"
	"github.com/zbdpay/zbd-mcp/internal/logging"
	"github.com/zbdpay/zbd-mcp/internal/server"
	"github.com/zbdpay/zbd-mcp/internal/tools/dispatch"
	"github.com/zbdpay/zbd-mcp/internal/tools/registry"
	"github.com/zbdpay/zbd-mcp/internal/zbd"
)

// serveFlags holds the serve flag values. They only override the loaded
// configuration when set explicitly.
type serveFlags struct {
	configPath       string
	transport        string
	httpAddr         string
	readOnly         bool
	debug            bool
	disableStreaming bool
	baseURL          string
	timeout          time.Duration
	maxBatchItems    int
	metricsEnabled   bool
	metricsAddr      string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the ZBD payments API.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp, with /healthz and /readyz

Configuration is read from defaults, the optional --config YAML file, the
environment (ZBD_API_KEY, ZBD_BASE_URL, ZBD_TIMEOUT, ZBD_MAX_BATCH_ITEMS,
MCP_TRANSPORT, MCP_HTTP_ADDR, MCP_READ_ONLY, METRICS_ENABLED, METRICS_ADDR)
and finally explicitly set flags. ZBD_API_KEY is required.

Safety Mode:
  --read-only registers only the tools that do not move funds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, &flags, cfg)
			if err := cfg.Validate(true); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to a YAML configuration file")
	cmd.Flags().StringVar(&flags.transport, "transport", config.TransportStdio, "Transport type: stdio or streamable-http. Can also use MCP_TRANSPORT env var.")
	cmd.Flags().StringVar(&flags.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport). Can also use MCP_HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&flags.readOnly, "read-only", false, "Only register tools that do not move funds. Can also use MCP_READ_ONLY env var.")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flags.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", zbd.DefaultBaseURL, "ZBD API base URL. Can also use ZBD_BASE_URL env var.")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", zbd.DefaultTimeout, "Timeout of a single ZBD API request. Can also use ZBD_TIMEOUT env var.")
	cmd.Flags().IntVar(&flags.maxBatchItems, "max-batch-items", 10, "Maximum number of items accepted by batch tools (1-10). Can also use ZBD_MAX_BATCH_ITEMS env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&flags.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// applyServeFlags copies explicitly set flags over cfg.
func applyServeFlags(cmd *cobra.Command, flags *serveFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("transport") {
		cfg.Server.Transport = flags.transport
	}
	if changed("http-addr") {
		cfg.Server.HTTPAddr = flags.httpAddr
	}
	if changed("read-only") {
		cfg.Server.ReadOnly = flags.readOnly
	}
	if changed("debug") {
		cfg.Server.Debug = flags.debug
	}
	if changed("disable-streaming") {
		cfg.Server.DisableStreaming = flags.disableStreaming
	}
	if changed("base-url") {
		cfg.ZBD.BaseURL = flags.baseURL
	}
	if changed("timeout") {
		cfg.ZBD.Timeout = flags.timeout
	}
	if changed("max-batch-items") {
		cfg.ZBD.MaxBatchItems = flags.maxBatchItems
	}
	if changed("metrics-enabled") {
		cfg.Metrics.Enabled = flags.metricsEnabled
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = flags.metricsAddr
	}
}

// app is the wired server: tools, dispatcher and MCP server sharing one
// ServerContext.
type app struct {
	serverContext *server.ServerContext
	registry      *registry.Registry
	dispatcher    *dispatch.Dispatcher
	sessions      *server.SessionTracker
	mcpServer     *mcpserver.MCPServer
}

// buildApp wires the ZBD client, the tool set and the MCP server. metrics
// and audit may be nil.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *instrumentation.Metrics, audit *instrumentation.AuditLogger) (*app, error) {
	client, err := zbd.NewClient(zbd.Config{
		APIKey:    cfg.ZBD.APIKey,
		BaseURL:   cfg.ZBD.BaseURL,
		Timeout:   cfg.ZBD.Timeout,
		UserAgent: "zbd-mcp/" + version,
		Metrics:   metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ZBD client: %w", err)
	}

	sc := server.NewServerContext(ctx, client,
		server.WithLogger(logger),
		server.WithMaxBatchItems(cfg.ZBD.MaxBatchItems),
		server.WithReadOnly(cfg.Server.ReadOnly),
	)
	if metrics != nil {
		sc.SetMetrics(metrics)
	}
	if audit != nil {
		sc.SetAuditLogger(audit)
	}

	b := registry.NewBuilder()
	if err := registerAllTools(b, sc, cfg.Server.ReadOnly); err != nil {
		_ = sc.Shutdown()
		return nil, err
	}
	reg := b.Build()

	d := dispatch.New(reg, dispatch.WithLogger(logging.NewSlogAdapter(logger)))
	sc.SetDispatcher(d)

	sessions := server.NewSessionTracker(metrics, 0, logger)
	mcpSrv := mcpserver.NewMCPServer("zbd-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithHooks(sessions.Hooks()),
	)
	if err := server.BindTools(mcpSrv, reg, d); err != nil {
		sessions.Stop()
		_ = sc.Shutdown()
		return nil, err
	}

	return &app{
		serverContext: sc,
		registry:      reg,
		dispatcher:    d,
		sessions:      sessions,
		mcpServer:     mcpSrv,
	}, nil
}

// close stops the session tracker and the server context.
func (a *app) close() error {
	a.sessions.Stop()
	return a.serverContext.Shutdown()
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the protocol in stdio mode, so logs always go to stderr
	logger := logging.NewStderrLogger(os.Stderr, cfg.Server.Debug)
	slog.SetDefault(logger)
	stdio := cfg.Server.Transport == config.TransportStdio

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	if !stdio && cfg.Metrics.Enabled && provider.Enabled() && instrConfig.MetricsExporter == instrumentation.ExporterPrometheus {
		metricsServer, err := startMetricsServer(cfg.Metrics.Addr, provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	var (
		metrics *instrumentation.Metrics
		audit   *instrumentation.AuditLogger
	)
	if provider.Enabled() {
		metrics = provider.Metrics()
		audit = instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)
	}

	a, err := buildApp(shutdownCtx, cfg, logger, metrics, audit)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	logger.Info("starting zbd-mcp",
		"version", version,
		"transport", cfg.Server.Transport,
		"tools", a.registry.Len(),
		"read_only", cfg.Server.ReadOnly,
		"api_key", logging.SanitizeToken(cfg.ZBD.APIKey))

	switch cfg.Server.Transport {
	case config.TransportStdio:
		return runStdioServer(shutdownCtx, a.mcpServer, os.Stdin, os.Stdout)
	case config.TransportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, a, cfg, metrics, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Server.Transport)
	}
}

func startMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		logger.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, in io.Reader, out io.Writer) error {
	stdioSrv := mcpserver.NewStdioServer(mcpSrv)

	err := stdioSrv.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, a *app, cfg *config.Config, metrics *instrumentation.Metrics, logger *slog.Logger) error {
	health := server.NewHealthChecker(a.serverContext)
	health.SetSessionTracker(a.sessions)

	httpSrv, err := server.NewHTTPServer(a.mcpServer, server.HTTPServerConfig{
		Addr:             cfg.Server.HTTPAddr,
		Metrics:          metrics,
		Health:           health,
		DisableStreaming: cfg.Server.DisableStreaming,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()
	logger.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr, "endpoint", server.MCPEndpointPath)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
