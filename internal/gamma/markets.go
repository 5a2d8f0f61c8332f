package gamma

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/pkg/types"
)

// batchSize is the number of markets fetched concurrently per chunk in
// GetMarketsBatch.
const batchSize = 10

// GetMarkets fetches markets matching params, falling back to the
// default query when params is nil. Results are served from the query
// cache when enabled and fresh.
func (c *Client) GetMarkets(ctx context.Context, params *types.QueryParams) ([]types.Market, error) {
	if params == nil {
		defaults := types.DefaultQueryParams()
		params = &defaults
	}

	key, err := params.CacheKey()
	if err != nil {
		return nil, types.NewDeserializationError(fmt.Sprintf("Failed to serialize query params: %v", err))
	}

	if c.cfg.CacheEnabled {
		if markets, ok := c.marketCache.Get(key); ok {
			c.metrics.IncCacheHits()
			c.logger.Debug("markets-cache-hit", zap.String("key", key))

			return markets, nil
		}

		c.metrics.IncCacheMisses()
	}

	url := c.baseURL + "/markets" + params.QueryString()

	c.logger.Debug("fetching-markets", zap.String("url", url))

	markets, err := getJSON[[]types.Market](ctx, c, url)
	if err != nil {
		return nil, err
	}

	if c.cfg.CacheEnabled {
		c.marketCache.Put(key, markets)
	}

	c.logger.Debug("fetched-markets", zap.Int("count", len(markets)))

	return markets, nil
}

// GetMarketByID fetches a single market, served from cache when enabled
// and fresh.
func (c *Client) GetMarketByID(ctx context.Context, marketID string) (types.Market, error) {
	if c.cfg.CacheEnabled {
		if market, ok := c.singleCache.Get(marketID); ok {
			c.metrics.IncCacheHits()
			c.logger.Debug("market-cache-hit", zap.String("market_id", marketID))

			return market, nil
		}

		c.metrics.IncCacheMisses()
	}

	url := fmt.Sprintf("%s/markets/%s", c.baseURL, marketID)

	c.logger.Debug("fetching-market", zap.String("url", url))

	market, err := getJSON[types.Market](ctx, c, url)
	if err != nil {
		return types.Market{}, err
	}

	if c.cfg.CacheEnabled {
		c.singleCache.Put(marketID, market)
	}

	c.logger.Debug("fetched-market",
		zap.String("market_id", marketID),
		zap.String("question", market.Question))

	return market, nil
}

// SearchMarkets fetches a page of markets and filters it down to those
// whose question, description or category contains keyword, compared
// case-insensitively. limit caps the fetched page, not the result;
// non-positive values fall back to the default page size.
func (c *Client) SearchMarkets(ctx context.Context, keyword string, limit int) ([]types.Market, error) {
	params := types.DefaultQueryParams()
	if limit > 0 {
		params.Limit = types.Ptr(limit)
	}

	markets, err := c.GetMarkets(ctx, &params)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(keyword)

	filtered := make([]types.Market, 0, len(markets))
	for _, market := range markets {
		if matchesKeyword(&market, needle) {
			filtered = append(filtered, market)
		}
	}

	c.logger.Debug("searched-markets",
		zap.String("keyword", keyword),
		zap.Int("matched", len(filtered)))

	return filtered, nil
}

// matchesKeyword reports whether market mentions needle, which must
// already be lowercased.
func matchesKeyword(market *types.Market, needle string) bool {
	if strings.Contains(strings.ToLower(market.Question), needle) {
		return true
	}

	if market.Description != nil && strings.Contains(strings.ToLower(*market.Description), needle) {
		return true
	}

	if market.Category != nil && strings.Contains(strings.ToLower(*market.Category), needle) {
		return true
	}

	return false
}

// GetTrendingMarkets fetches active markets ordered by volume.
// Non-positive limits fall back to 10.
func (c *Client) GetTrendingMarkets(ctx context.Context, limit int) ([]types.Market, error) {
	params := types.DefaultQueryParams()
	params.Order = types.Ptr("volume")
	params.Limit = types.Ptr(10)

	if limit > 0 {
		params.Limit = types.Ptr(limit)
	}

	return c.GetMarkets(ctx, &params)
}

// GetActiveMarkets fetches active, non-archived markets. Non-positive
// limits fall back to 50.
func (c *Client) GetActiveMarkets(ctx context.Context, limit int) ([]types.Market, error) {
	params := types.DefaultQueryParams()
	params.Limit = types.Ptr(50)

	if limit > 0 {
		params.Limit = types.Ptr(limit)
	}

	return c.GetMarkets(ctx, &params)
}

// GetMarketPrices fetches a market and pairs each outcome with its
// parsed price. Outcomes whose price fails to parse are skipped.
func (c *Client) GetMarketPrices(ctx context.Context, marketID string) ([]types.MarketPrice, error) {
	market, err := c.GetMarketByID(ctx, marketID)
	if err != nil {
		return nil, err
	}

	prices := make([]types.MarketPrice, 0, len(market.Outcomes))

	for i := range market.Outcomes {
		if i >= len(market.OutcomePrices) {
			break
		}

		price, err := strconv.ParseFloat(market.OutcomePrices[i], 64)
		if err != nil {
			continue
		}

		prices = append(prices, types.MarketPrice{
			MarketID:  marketID,
			OutcomeID: fmt.Sprintf("outcome_%d", i),
			Price:     price,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return prices, nil
}

// GetMarketsBatch fetches many markets by id, in chunks of batchSize
// fetched concurrently. Lookups that fail are logged and dropped; the
// returned slice preserves the order of the ids that succeeded. A short
// pause follows every full chunk to stay inside API rate limits.
func (c *Client) GetMarketsBatch(ctx context.Context, marketIDs []string) ([]types.Market, error) {
	if len(marketIDs) == 0 {
		return []types.Market{}, nil
	}

	allMarkets := make([]types.Market, 0, len(marketIDs))

	for start := 0; start < len(marketIDs); start += batchSize {
		end := start + batchSize
		if end > len(marketIDs) {
			end = len(marketIDs)
		}

		chunk := marketIDs[start:end]
		BatchChunksTotal.Inc()

		results := make([]types.Market, len(chunk))
		errs := make([]error, len(chunk))

		var wg sync.WaitGroup

		for i, id := range chunk {
			wg.Add(1)

			go func(i int, id string) {
				defer wg.Done()
				results[i], errs[i] = c.GetMarketByID(ctx, id)
			}(i, id)
		}

		wg.Wait()

		for i := range chunk {
			if errs[i] != nil {
				c.logger.Warn("batch-market-fetch-failed",
					zap.String("market_id", chunk[i]),
					zap.Error(errs[i]))

				continue
			}

			allMarkets = append(allMarkets, results[i])
		}

		if len(chunk) == batchSize {
			select {
			case <-time.After(100 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return allMarkets, nil
}
