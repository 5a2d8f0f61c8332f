package mcp

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const analyzeMarketTemplate = "Analyze this prediction market:\n\n" +
	"Market: %s\nQuestion: %s\nLiquidity: $%.0f\nVolume: $%.0f\nActive: %t\n\n" +
	"Current Prices:\n%s\n\n" +
	"Provide analysis on:\n" +
	"1. Market sentiment and trends\n" +
	"2. Liquidity assessment\n" +
	"3. Price efficiency\n" +
	"4. Potential trading opportunities\n" +
	"5. Risk factors"

const findArbitrageTemplate = "Find arbitrage opportunities among these related markets:\n\n" +
	"Keyword: %s\nMarkets found: %d\n\n%s\n\n" +
	"Analyze:\n" +
	"1. Similar questions with different prices\n" +
	"2. Cross-market arbitrage opportunities\n" +
	"3. Risk-adjusted returns\n" +
	"4. Execution feasibility\n" +
	"5. Recommended actions"

const marketSummaryTemplate = "Provide a comprehensive market summary:\n\n" +
	"Top Trending Markets (by volume):\n%s\n\n" +
	"Top Active Markets:\n%s\n\n" +
	"Summarize:\n" +
	"1. Overall market sentiment\n" +
	"2. Popular categories and themes\n" +
	"3. Liquidity distribution\n" +
	"4. Notable price movements\n" +
	"5. Trading recommendations"

// listPrompts returns the static prompt catalog.
func (s *Server) listPrompts() promptListResult {
	return promptListResult{
		Prompts: []promptDescriptor{
			{
				Name:        "analyze_market",
				Description: "Analyze a prediction market and provide insights on trends, liquidity, and potential opportunities",
				Arguments: []promptArgument{
					{
						Name:        "market_id",
						Description: "The ID of the market to analyze",
						Required:    true,
					},
				},
			},
			{
				Name:        "find_arbitrage",
				Description: "Look for arbitrage opportunities across multiple markets with similar outcomes",
				Arguments: []promptArgument{
					{
						Name:        "keyword",
						Description: "Keyword to search for related markets",
						Required:    true,
					},
					{
						Name:        "limit",
						Description: "Maximum number of markets to analyze (default: 10)",
						Required:    false,
					},
				},
			},
			{
				Name:        "market_summary",
				Description: "Provide a comprehensive summary of the top prediction markets",
				Arguments: []promptArgument{
					{
						Name:        "category",
						Description: "Filter by category (optional)",
						Required:    false,
					},
					{
						Name:        "limit",
						Description: "Number of markets to include (default: 5)",
						Required:    false,
					},
				},
			},
		},
	}
}

// getPrompt interpolates repository data into one of the fixed prompt
// templates. Failures become a result carrying an error string and
// empty messages.
func (s *Server) getPrompt(ctx context.Context, name string, args map[string]any) promptResult {
	s.logger.Debug("getting-prompt", zap.String("prompt", name))

	messages, err := s.buildPromptMessages(ctx, name, args)
	if err != nil {
		return promptResult{
			Messages: []promptMessage{},
			Error:    fmt.Sprintf("Error getting prompt: %v", err),
		}
	}

	return promptResult{Messages: messages}
}

func (s *Server) buildPromptMessages(ctx context.Context, name string, args map[string]any) ([]promptMessage, error) {
	switch name {
	case "analyze_market":
		marketID, ok := stringArg(args, "market_id")
		if !ok {
			return nil, errors.New("market_id argument is required")
		}

		market, err := s.repo.GetMarketByID(ctx, marketID)
		if err != nil {
			return nil, err
		}

		prices, err := s.repo.GetMarketPrices(ctx, marketID)
		if err != nil {
			return nil, err
		}

		pricesText, err := json.MarshalIndent(prices, "", "  ")
		if err != nil {
			return nil, err
		}

		return userMessage(fmt.Sprintf(analyzeMarketTemplate,
			market.ID,
			market.Question,
			market.Liquidity,
			market.Volume,
			market.Active,
			pricesText)), nil

	case "find_arbitrage":
		keyword, ok := stringArg(args, "keyword")
		if !ok {
			return nil, errors.New("keyword argument is required")
		}

		limit := intArg(args, "limit")
		if limit <= 0 {
			limit = 10
		}

		markets, err := s.repo.SearchMarkets(ctx, keyword, limit)
		if err != nil {
			return nil, err
		}

		marketsText, err := json.MarshalIndent(markets, "", "  ")
		if err != nil {
			return nil, err
		}

		return userMessage(fmt.Sprintf(findArbitrageTemplate,
			keyword,
			len(markets),
			marketsText)), nil

	case "market_summary":
		limit := intArg(args, "limit")
		if limit <= 0 {
			limit = 5
		}

		trending, err := s.repo.GetTrendingMarkets(ctx, limit)
		if err != nil {
			return nil, err
		}

		active, err := s.repo.GetActiveMarkets(ctx, limit)
		if err != nil {
			return nil, err
		}

		trendingText, err := json.MarshalIndent(trending, "", "  ")
		if err != nil {
			return nil, err
		}

		activeText, err := json.MarshalIndent(active, "", "  ")
		if err != nil {
			return nil, err
		}

		return userMessage(fmt.Sprintf(marketSummaryTemplate,
			trendingText,
			activeText)), nil

	default:
		return nil, fmt.Errorf("Unknown prompt: %s", name)
	}
}

func userMessage(text string) []promptMessage {
	return []promptMessage{{Role: "user", Content: text}}
}
