// Package debugserver exposes operational HTTP endpoints (Prometheus
// metrics, health, client stats) on a side port while the protocol
// itself runs over stdio.
package debugserver

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/pkg/metrics"
)

// Server provides HTTP endpoints for metrics and health checks.
type Server struct {
	server    *http.Server
	logger    *zap.Logger
	metrics   *metrics.Metrics
	startTime time.Time
	ready     atomic.Bool
}

// healthResponse is the /healthz body.
type healthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	StartedAt string `json:"started_at"`
	Message   string `json:"message,omitempty"`
}

// New creates a debug server listening on port.
func New(port string, logger *zap.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		logger:    logger,
		metrics:   m,
		startTime: time.Now(),
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/stats", s.handleStats)

	s.server = &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// SetReady marks the process as ready to serve traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Uptime:    time.Since(s.startTime).String(),
		StartedAt: s.startTime.UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")

	if !s.ready.Load() {
		resp.Status = "starting"
		resp.Message = "protocol loop not running yet"
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(resp)

		return
	}

	resp.Status = "healthy"
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(s.metrics.Snapshot())
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("debug-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("debug-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("debug-server-shutdown-complete")

	return nil
}
