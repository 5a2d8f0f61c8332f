package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	if a.debugServer != nil {
		a.debugServer.SetReady(false)
	}

	// Cancel context to signal all components
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	err := a.shutdownDebugServer(shutdownCtx)
	if err != nil {
		a.logger.Error("debug-server-shutdown-error", zap.Error(err))
	}

	// Wait for all tracked goroutines
	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")

	return nil
}

func (a *App) shutdownDebugServer(ctx context.Context) error {
	if a.debugServer == nil {
		return nil
	}

	return a.debugServer.Shutdown(ctx)
}
