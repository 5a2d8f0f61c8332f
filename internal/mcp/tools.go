package mcp

import (
	"context"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// toolCatalog returns the static tools/list catalog.
func toolCatalog() []toolDescriptor {
	return []toolDescriptor{
		{
			Name:        "get_active_markets",
			Description: "Get list of active prediction markets",
			InputSchema: toolSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"limit": {
						Type:        "number",
						Description: "Maximum number of markets to return",
					},
				},
			},
		},
		{
			Name:        "get_market_details",
			Description: "Get detailed information about a specific market",
			InputSchema: toolSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"market_id": {
						Type:        "string",
						Description: "The ID of the market",
					},
				},
				Required: []string{"market_id"},
			},
		},
		{
			Name:        "search_markets",
			Description: "Search markets by keyword",
			InputSchema: toolSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"keyword": {
						Type:        "string",
						Description: "Keyword to search for",
					},
					"limit": {
						Type:        "number",
						Description: "Maximum number of results",
					},
				},
				Required: []string{"keyword"},
			},
		},
		{
			Name:        "get_market_prices",
			Description: "Get current prices for a market",
			InputSchema: toolSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"market_id": {
						Type:        "string",
						Description: "The ID of the market",
					},
				},
				Required: []string{"market_id"},
			},
		},
		{
			Name:        "get_trending_markets",
			Description: "Get trending markets with high volume",
			InputSchema: toolSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"limit": {
						Type:        "number",
						Description: "Maximum number of markets to return",
					},
				},
			},
		},
	}
}

// callTool dispatches one tools/call request. Every outcome, including
// an unknown tool name, is a tool result envelope.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) toolResult {
	s.logger.Debug("calling-tool", zap.String("tool", name))

	switch name {
	case "get_active_markets":
		payload, err := s.getActiveMarkets(ctx, intArg(args, "limit"))
		if err != nil {
			return errorResult(err)
		}

		return textResult(payload)

	case "get_market_details":
		marketID, ok := stringArg(args, "market_id")
		if !ok {
			return errorText("Error: market_id argument is required")
		}

		market, err := s.repo.GetMarketByID(ctx, marketID)
		if err != nil {
			return errorResult(err)
		}

		return textResult(market)

	case "search_markets":
		keyword, ok := stringArg(args, "keyword")
		if !ok {
			return errorText("Error: keyword argument is required")
		}

		payload, err := s.searchMarkets(ctx, keyword, intArg(args, "limit"))
		if err != nil {
			return errorResult(err)
		}

		return textResult(payload)

	case "get_market_prices":
		marketID, ok := stringArg(args, "market_id")
		if !ok {
			return errorText("Error: market_id argument is required")
		}

		payload, err := s.getMarketPrices(ctx, marketID)
		if err != nil {
			return errorResult(err)
		}

		return textResult(payload)

	case "get_trending_markets":
		payload, err := s.getTrendingMarkets(ctx, intArg(args, "limit"))
		if err != nil {
			return errorResult(err)
		}

		return textResult(payload)

	default:
		return toolResult{
			Content: []textContent{{Type: "text", Text: fmt.Sprintf("Unknown tool: %s", name)}},
			IsError: true,
		}
	}
}

// textResult renders payload as pretty-printed JSON text content.
func textResult(payload any) toolResult {
	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult(err)
	}

	return toolResult{
		Content: []textContent{{Type: "text", Text: string(text)}},
	}
}

func errorResult(err error) toolResult {
	return errorText(fmt.Sprintf("Error: %v", err))
}

func errorText(text string) toolResult {
	return toolResult{
		Content: []textContent{{Type: "text", Text: text}},
		IsError: true,
	}
}

// decodeArgs decodes a tool or prompt argument object. Absent or
// non-object arguments decode as empty.
func decodeArgs(raw json.RawMessage) map[string]any {
	args := map[string]any{}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return map[string]any{}
		}
	}

	return args
}

// stringArg extracts a string argument, reporting whether it was
// present as a string.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)

	return v, ok
}

// intArg extracts a non-negative whole-number argument, returning 0 for
// absent, negative or fractional values.
func intArg(args map[string]any, key string) int {
	v, ok := args[key].(float64)
	if !ok || v < 0 || v != math.Trunc(v) {
		return 0
	}

	return int(v)
}
