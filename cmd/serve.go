package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/document"
	"github.com/teemow/courtmail/internal/instrumentation"
	"github.com/teemow/courtmail/internal/llm"
	"github.com/teemow/courtmail/internal/logging"
	"github.com/teemow/courtmail/internal/mail"
	"github.com/teemow/courtmail/internal/server"
	"github.com/teemow/courtmail/internal/tools/document_tools"
	"github.com/teemow/courtmail/internal/tools/thread_tools"
)

// serveConfig holds the serve command settings.
type serveConfig struct {
	recordsPath string
	metricsAddr string
	chromePath  string
	pdfTimeout  time.Duration
	llm         llmFlags
}

func newServeCmd() *cobra.Command {
	var cfg serveConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server over stdio. The server loads the
records file once and exposes tools to list, read, analyze and document threads.

Analysis tools are enabled when an LLM API key is configured
(OPENAI_API_KEY, or LLM_PROVIDER=anthropic with ANTHROPIC_API_KEY).

Metrics:
  --metrics-addr :9090 serves Prometheus metrics and health probes on a
  dedicated port. Can also use METRICS_ADDR env var.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.metricsAddr == "" {
				cfg.metricsAddr = os.Getenv("METRICS_ADDR")
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.recordsPath, "records", "", "Email records file (JSON or YAML)")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", "", "Metrics server address, e.g. :9090 (default: disabled)")
	cmd.Flags().StringVar(&cfg.chromePath, "chrome-path", "", "Chrome/Chromium binary for pdf output. Can also use CHROME_PATH env var.")
	cmd.Flags().DurationVar(&cfg.pdfTimeout, "pdf-timeout", document.DefaultPDFTimeout, "Timeout for pdf rendering")
	cfg.llm.register(cmd)

	return cmd
}

func runServe(ctx context.Context, cfg serveConfig) error {
	if cfg.recordsPath == "" {
		return errors.New("--records is required")
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records, err := mail.LoadRecords(cfg.recordsPath)
	if err != nil {
		return err
	}

	provider, stopInstrumentation, err := startInstrumentation(shutdownCtx)
	if err != nil {
		return err
	}
	defer stopInstrumentation()

	logger := logging.WithOperation(slog.Default(), "serve")

	opts := []server.Option{
		server.WithMetrics(provider.Metrics()),
		server.WithLogger(slog.Default()),
		server.WithPDFRenderer(document.NewChromeRenderer(cfg.chromePath, cfg.pdfTimeout)),
	}
	analyzer, err := newAnalyzer(&cfg.llm, provider.Metrics())
	switch {
	case err == nil:
		opts = append(opts, server.WithAnalyzer(analyzer))
	case errors.Is(err, llm.ErrMissingAPIKey):
		logger.Info("no LLM API key configured, analysis tools disabled")
	default:
		return err
	}

	serverContext, err := server.NewServerContext(shutdownCtx, records, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	var metricsServer *server.MetricsServer
	if cfg.metricsAddr != "" {
		metricsServer, err = startMetricsServer(cfg.metricsAddr, provider, serverContext)
		if err != nil {
			_ = serverContext.Shutdown()
			return err
		}
	}

	defer func() {
		if metricsServer != nil {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer stopCancel()
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("courtmail", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	return runStdioServer(shutdownCtx, mcpSrv)
}

// startMetricsServer starts the metrics server and waits until it is listening.
func startMetricsServer(addr string, provider *instrumentation.Provider, sc *server.ServerContext) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
		ServerContext:           sc,
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

	// Wait for metrics server to be ready or fail
	select {
	case <-metricsReady:
		slog.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Thread",
			register: func() error {
				return thread_tools.RegisterThreadTools(mcpSrv, sc)
			},
		},
		{
			name: "Document",
			register: func() error {
				return document_tools.RegisterDocumentTools(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}
