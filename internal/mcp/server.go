package mcp

import (
	"context"

	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/pkg/cache"
	"github.com/mselser95/polymarket-mcp/pkg/config"
	"github.com/mselser95/polymarket-mcp/pkg/metrics"
	"github.com/mselser95/polymarket-mcp/pkg/types"
)

// Repository is the market data surface the dispatcher serves from.
// A non-positive limit asks the repository for its operation default.
type Repository interface {
	GetActiveMarkets(ctx context.Context, limit int) ([]types.Market, error)
	GetMarketByID(ctx context.Context, marketID string) (types.Market, error)
	SearchMarkets(ctx context.Context, keyword string, limit int) ([]types.Market, error)
	GetTrendingMarkets(ctx context.Context, limit int) ([]types.Market, error)
	GetMarketPrices(ctx context.Context, marketID string) ([]types.MarketPrice, error)
}

// Server routes protocol requests to the market repository and renders
// the results into protocol envelopes.
type Server struct {
	repo      Repository
	resources *cache.ResourceStore
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewServer creates a protocol server over repo.
func NewServer(repo Repository, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *Server {
	return &Server{
		repo:      repo,
		resources: cache.NewResourceStore(),
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
	}
}

func (s *Server) getActiveMarkets(ctx context.Context, limit int) (marketsPayload, error) {
	requestID := types.NewRequestID()

	s.logger.Debug("fetching-active-markets",
		zap.Int("limit", limit),
		zap.String("request_id", requestID.String()))

	markets, err := s.repo.GetActiveMarkets(ctx, limit)
	if err != nil {
		s.logger.Warn("active-markets-failed",
			zap.String("request_id", requestID.String()),
			zap.Error(err))

		return marketsPayload{}, err
	}

	return marketsPayload{
		Markets:   markets,
		Count:     len(markets),
		RequestID: requestID,
	}, nil
}

func (s *Server) searchMarkets(ctx context.Context, keyword string, limit int) (marketsPayload, error) {
	s.logger.Debug("searching-markets",
		zap.String("keyword", keyword),
		zap.Int("limit", limit))

	markets, err := s.repo.SearchMarkets(ctx, keyword, limit)
	if err != nil {
		return marketsPayload{}, err
	}

	return marketsPayload{
		Markets: markets,
		Count:   len(markets),
		Keyword: keyword,
	}, nil
}

func (s *Server) getMarketPrices(ctx context.Context, marketID string) (pricesPayload, error) {
	s.logger.Debug("fetching-market-prices", zap.String("market_id", marketID))

	prices, err := s.repo.GetMarketPrices(ctx, marketID)
	if err != nil {
		return pricesPayload{}, err
	}

	return pricesPayload{
		MarketID: marketID,
		Prices:   prices,
	}, nil
}

func (s *Server) getTrendingMarkets(ctx context.Context, limit int) (marketsPayload, error) {
	s.logger.Debug("fetching-trending-markets", zap.Int("limit", limit))

	markets, err := s.repo.GetTrendingMarkets(ctx, limit)
	if err != nil {
		return marketsPayload{}, err
	}

	return marketsPayload{
		Markets: markets,
		Count:   len(markets),
	}, nil
}
