package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/internal/gamma"
	"github.com/mselser95/polymarket-mcp/internal/mcp"
	"github.com/mselser95/polymarket-mcp/pkg/config"
	"github.com/mselser95/polymarket-mcp/pkg/debugserver"
	"github.com/mselser95/polymarket-mcp/pkg/metrics"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := metrics.New()

	gammaClient, err := setupGammaClient(cfg, logger, m)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup gamma client: %w", err)
	}

	mcpServer := setupMCPServer(gammaClient, cfg, logger, m)
	debugServer := setupDebugServer(cfg, logger, m)

	stdin := io.Reader(os.Stdin)
	if opts.Stdin != nil {
		stdin = opts.Stdin
	}

	stdout := io.Writer(os.Stdout)
	if opts.Stdout != nil {
		stdout = opts.Stdout
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		metrics:     m,
		gammaClient: gammaClient,
		mcpServer:   mcpServer,
		debugServer: debugServer,
		stdin:       stdin,
		stdout:      stdout,
		serveErr:    make(chan error, 1),
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

func setupGammaClient(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*gamma.Client, error) {
	return gamma.NewClient(cfg, logger, m)
}

func setupMCPServer(client *gamma.Client, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *mcp.Server {
	return mcp.NewServer(client, cfg, logger, m)
}

func setupDebugServer(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *debugserver.Server {
	if cfg.MetricsPort == "" {
		logger.Info("debug-server-disabled",
			zap.String("note", "POLYMARKET_METRICS_PORT not set, metrics and health endpoints unavailable"))
		return nil
	}

	return debugserver.New(cfg.MetricsPort, logger, m)
}
