package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Run starts the application and blocks until the input stream closes or a
// shutdown signal arrives.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("base-url", a.cfg.GammaBaseURL),
		zap.String("log-level", a.cfg.LogLevel))

	a.startComponents()

	if a.debugServer != nil {
		a.debugServer.SetReady(true)
	}

	a.logger.Info("application-ready",
		zap.Bool("cache-enabled", a.cfg.CacheEnabled),
		zap.String("metrics-port", a.cfg.MetricsPort))

	return a.waitForShutdown()
}

func (a *App) startComponents() {
	if a.debugServer != nil {
		a.wg.Add(1)
		go a.runDebugServer()
	}

	// The protocol loop is not tracked by the wait group: a blocked read
	// on stdin cannot be interrupted, so shutdown must not wait for it.
	go a.runProtocolLoop()
}

func (a *App) runDebugServer() {
	defer a.wg.Done()
	err := a.debugServer.Start()
	if err != nil {
		a.logger.Error("debug-server-error", zap.Error(err))
	}
}

func (a *App) runProtocolLoop() {
	a.serveErr <- a.mcpServer.Serve(a.ctx, a.stdin, a.stdout)
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case err := <-a.serveErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("protocol-loop-error", zap.Error(err))
			serveErr = err
		} else {
			a.logger.Info("input-stream-closed")
		}
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	shutdownErr := a.Shutdown()
	if serveErr != nil {
		return serveErr
	}

	return shutdownErr
}
