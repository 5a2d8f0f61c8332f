package app

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/internal/gamma"
	"github.com/mselser95/polymarket-mcp/internal/mcp"
	"github.com/mselser95/polymarket-mcp/pkg/config"
	"github.com/mselser95/polymarket-mcp/pkg/debugserver"
	"github.com/mselser95/polymarket-mcp/pkg/metrics"
)

// App is the main application orchestrator.
type App struct {
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *metrics.Metrics
	gammaClient *gamma.Client
	mcpServer   *mcp.Server
	debugServer *debugserver.Server
	stdin       io.Reader
	stdout      io.Writer
	serveErr    chan error
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// Options holds application options.
type Options struct {
	Stdin  io.Reader // Defaults to os.Stdin
	Stdout io.Writer // Defaults to os.Stdout
}
