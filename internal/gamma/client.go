// Package gamma provides a retrying, caching client for the Polymarket
// Gamma REST API.
package gamma

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/pkg/cache"
	"github.com/mselser95/polymarket-mcp/pkg/config"
	"github.com/mselser95/polymarket-mcp/pkg/metrics"
	"github.com/mselser95/polymarket-mcp/pkg/types"
)

// Client is an HTTP client for the Polymarket Gamma API with retry,
// exponential backoff and an optional TTL cache in front of queries.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *metrics.Metrics
	marketCache *cache.Store[[]types.Market]
	singleCache *cache.Store[types.Market]
}

// NewClient creates a new Gamma API client. An API key, when configured,
// is attached to every request as a bearer token.
func NewClient(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}

	var rt http.RoundTripper = transport

	if cfg.APIKey != "" {
		if !validHeaderValue(cfg.APIKey) {
			return nil, types.NewConfigError("Invalid API key format: not a valid header value")
		}

		rt = &authTransport{apiKey: cfg.APIKey, base: transport}
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.GammaBaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.APITimeout,
			Transport: rt,
		},
		cfg:         cfg,
		logger:      logger,
		metrics:     m,
		marketCache: cache.NewStore[[]types.Market](cfg.CacheTTL),
		singleCache: cache.NewStore[types.Market](cfg.CacheTTL),
	}, nil
}

// authTransport adds the bearer token to every outgoing request.
type authTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.apiKey)

	return t.base.RoundTrip(clone)
}

// validHeaderValue reports whether s is safe to send as an HTTP header
// value. Control characters other than horizontal tab are rejected.
func validHeaderValue(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == 0x7f || (c < 0x20 && c != '\t') {
			return false
		}
	}

	return true
}
