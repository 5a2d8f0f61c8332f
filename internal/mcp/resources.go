package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/pkg/types"
)

// listResources returns the static resource catalog.
func (s *Server) listResources() resourceListResult {
	return resourceListResult{
		Resources: []resourceDescriptor{
			{
				URI:         "markets:active",
				Name:        "Active Markets",
				Description: "List of currently active prediction markets",
				MimeType:    "application/json",
			},
			{
				URI:         "markets:trending",
				Name:        "Trending Markets",
				Description: "Markets with highest trading volume",
				MimeType:    "application/json",
			},
		},
	}
}

// readResource renders the resource at uri, serving from the resource
// cache when enabled and fresh. Failures become a result carrying an
// error string and empty contents, never a protocol error.
func (s *Server) readResource(ctx context.Context, uri string) resourceReadResult {
	s.logger.Debug("reading-resource", zap.String("uri", uri))

	if s.cfg.ResourceCacheEnabled {
		if text, ok := s.resources.Get(uri); ok {
			s.logger.Debug("resource-cache-hit", zap.String("uri", uri))

			return readContents(uri, text)
		}
	}

	text, err := s.renderResource(ctx, uri)
	if err != nil {
		return resourceReadResult{
			Contents: []resourceContent{},
			Error:    fmt.Sprintf("Error reading resource: %v", err),
		}
	}

	if s.cfg.ResourceCacheEnabled {
		s.resources.Put(uri, text, s.cfg.ResourceCacheTTL)
	}

	return readContents(uri, text)
}

// renderResource produces the JSON text body for a known resource URI.
func (s *Server) renderResource(ctx context.Context, uri string) (string, error) {
	switch {
	case uri == "markets:active":
		markets, err := s.repo.GetActiveMarkets(ctx, 20)
		if err != nil {
			return "", err
		}

		return renderMarketsDocument(markets)

	case uri == "markets:trending":
		markets, err := s.repo.GetTrendingMarkets(ctx, 10)
		if err != nil {
			return "", err
		}

		return renderMarketsDocument(markets)

	case strings.HasPrefix(uri, "market:"):
		marketID := strings.TrimPrefix(uri, "market:")

		market, err := s.repo.GetMarketByID(ctx, marketID)
		if err != nil {
			return "", err
		}

		text, err := json.MarshalIndent(market, "", "  ")
		if err != nil {
			return "", err
		}

		return string(text), nil

	default:
		return "", fmt.Errorf("Unknown resource URI: %s", uri)
	}
}

func renderMarketsDocument(markets []types.Market) (string, error) {
	doc := resourceDocument{
		Markets:     markets,
		Count:       len(markets),
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}

	text, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	return string(text), nil
}

func readContents(uri, text string) resourceReadResult {
	return resourceReadResult{
		Contents: []resourceContent{
			{
				URI:      uri,
				MimeType: "application/json",
				Text:     text,
			},
		},
	}
}
