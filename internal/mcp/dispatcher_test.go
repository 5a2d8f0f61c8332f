package mcp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/pkg/config"
	"github.com/mselser95/polymarket-mcp/pkg/metrics"
	"github.com/mselser95/polymarket-mcp/pkg/types"
)

// mockRepository satisfies Repository with per-test function hooks.
// Unset hooks succeed with empty results.
type mockRepository struct {
	activeFn   func(ctx context.Context, limit int) ([]types.Market, error)
	byIDFn     func(ctx context.Context, marketID string) (types.Market, error)
	searchFn   func(ctx context.Context, keyword string, limit int) ([]types.Market, error)
	trendingFn func(ctx context.Context, limit int) ([]types.Market, error)
	pricesFn   func(ctx context.Context, marketID string) ([]types.MarketPrice, error)
}

func (m *mockRepository) GetActiveMarkets(ctx context.Context, limit int) ([]types.Market, error) {
	if m.activeFn == nil {
		return []types.Market{}, nil
	}

	return m.activeFn(ctx, limit)
}

func (m *mockRepository) GetMarketByID(ctx context.Context, marketID string) (types.Market, error) {
	if m.byIDFn == nil {
		return types.Market{}, nil
	}

	return m.byIDFn(ctx, marketID)
}

func (m *mockRepository) SearchMarkets(ctx context.Context, keyword string, limit int) ([]types.Market, error) {
	if m.searchFn == nil {
		return []types.Market{}, nil
	}

	return m.searchFn(ctx, keyword, limit)
}

func (m *mockRepository) GetTrendingMarkets(ctx context.Context, limit int) ([]types.Market, error) {
	if m.trendingFn == nil {
		return []types.Market{}, nil
	}

	return m.trendingFn(ctx, limit)
}

func (m *mockRepository) GetMarketPrices(ctx context.Context, marketID string) ([]types.MarketPrice, error) {
	if m.pricesFn == nil {
		return []types.MarketPrice{}, nil
	}

	return m.pricesFn(ctx, marketID)
}

func serverConfig() *config.Config {
	return &config.Config{
		GammaBaseURL:         "https://gamma-api.polymarket.com",
		APITimeout:           5 * time.Second,
		MaxRetries:           3,
		RetryBaseDelay:       10 * time.Millisecond,
		CacheEnabled:         true,
		CacheTTL:             time.Minute,
		ResourceCacheEnabled: true,
		ResourceCacheTTL:     time.Minute,
	}
}

func newTestServer(repo Repository) *Server {
	return NewServer(repo, serverConfig(), zap.NewNop(), metrics.New())
}

// runLines feeds input through the serve loop and returns the emitted
// response lines.
func runLines(t *testing.T, server *Server, input string) []string {
	t.Helper()

	var out bytes.Buffer

	err := server.Serve(context.Background(), strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("serve: %v", err)
	}

	raw := strings.TrimRight(out.String(), "\n")
	if raw == "" {
		return nil
	}

	return strings.Split(raw, "\n")
}

type respEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

func decodeResponse(t *testing.T, line string) respEnvelope {
	t.Helper()

	var resp respEnvelope

	err := json.Unmarshal([]byte(line), &resp)
	if err != nil {
		t.Fatalf("decode response %q: %v", line, err)
	}

	if resp.JSONRPC != "2.0" {
		t.Errorf("expected jsonrpc 2.0, got %q", resp.JSONRPC)
	}

	return resp
}

func sampleMarket(id string) types.Market {
	desc := "Resolves YES on measurable rain"
	cat := "Weather"

	return types.Market{
		ID:            id,
		Question:      "Will it rain tomorrow?",
		Description:   &desc,
		Active:        true,
		Liquidity:     1000,
		Volume:        5000,
		Category:      &cat,
		Outcomes:      []string{"Yes", "No"},
		OutcomePrices: []string{"0.6", "0.4"},
	}
}

func TestServe_Initialize(t *testing.T) {
	server := newTestServer(&mockRepository{})

	lines := runLines(t, server, `{"method":"initialize","id":1}`+"\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 response line, got %d", len(lines))
	}

	resp := decodeResponse(t, lines[0])

	if resp.ID != float64(1) {
		t.Errorf("expected id 1 echoed, got %v", resp.ID)
	}

	var result struct {
		ProtocolVersion string         `json:"protocolVersion"`
		Capabilities    map[string]any `json:"capabilities"`
		ServerInfo      serverInfo     `json:"serverInfo"`
	}

	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("unexpected protocol version: %s", result.ProtocolVersion)
	}

	if result.ServerInfo.Name != "polymarket-mcp" || result.ServerInfo.Version != "1.0.0" {
		t.Errorf("unexpected server info: %+v", result.ServerInfo)
	}

	for _, capability := range []string{"tools", "resources", "prompts"} {
		if _, ok := result.Capabilities[capability]; !ok {
			t.Errorf("expected %s capability", capability)
		}
	}
}

func TestServe_ToolsList(t *testing.T) {
	server := newTestServer(&mockRepository{})

	lines := runLines(t, server, `{"method":"tools/list","id":2}`+"\n")
	resp := decodeResponse(t, lines[0])

	var result toolListResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	want := []string{
		"get_active_markets",
		"get_market_details",
		"search_markets",
		"get_market_prices",
		"get_trending_markets",
	}

	if len(result.Tools) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(result.Tools))
	}

	for i, name := range want {
		if result.Tools[i].Name != name {
			t.Errorf("expected tool %d to be %s, got %s", i, name, result.Tools[i].Name)
		}
	}

	if got := result.Tools[1].InputSchema.Required; len(got) != 1 || got[0] != "market_id" {
		t.Errorf("expected market_id required for details tool, got %v", got)
	}

	if got := result.Tools[0].InputSchema.Required; len(got) != 0 {
		t.Errorf("expected no required args for active markets tool, got %v", got)
	}
}

func TestServe_CallActiveMarkets(t *testing.T) {
	var gotLimit int

	repo := &mockRepository{
		activeFn: func(ctx context.Context, limit int) ([]types.Market, error) {
			gotLimit = limit
			return []types.Market{sampleMarket("m1")}, nil
		},
	}

	server := newTestServer(repo)

	input := `{"method":"tools/call","id":1,"params":{"name":"get_active_markets","arguments":{"limit":5}}}` + "\n"

	lines := runLines(t, server, input)
	if len(lines) != 1 {
		t.Fatalf("expected 1 response line, got %d", len(lines))
	}

	if gotLimit != 5 {
		t.Errorf("expected limit 5 passed through, got %d", gotLimit)
	}

	resp := decodeResponse(t, lines[0])

	var result map[string]any
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	if _, hasError := result["isError"]; hasError {
		t.Error("expected no isError field on success")
	}

	content := result["content"].([]any)
	text := content[0].(map[string]any)["text"].(string)

	if !strings.Contains(text, `"id": "m1"`) {
		t.Errorf("expected market id in text, got: %s", text)
	}

	if !strings.Contains(text, `"count": 1`) {
		t.Errorf("expected count in text, got: %s", text)
	}

	if !strings.Contains(text, `"request_id"`) {
		t.Errorf("expected request id in text, got: %s", text)
	}
}

func TestServe_CallUnknownTool(t *testing.T) {
	server := newTestServer(&mockRepository{})

	input := `{"method":"tools/call","id":1,"params":{"name":"unknown_tool","arguments":{}}}` + "\n"

	resp := decodeResponse(t, runLines(t, server, input)[0])

	var result toolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	if !result.IsError {
		t.Error("expected isError for unknown tool")
	}

	if got := result.Content[0].Text; got != "Unknown tool: unknown_tool" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestServe_CallToolFailure(t *testing.T) {
	repo := &mockRepository{
		byIDFn: func(ctx context.Context, marketID string) (types.Market, error) {
			return types.Market{}, types.NewAPIError("HTTP error: not found", 404)
		},
	}

	server := newTestServer(repo)

	input := `{"method":"tools/call","id":1,"params":{"name":"get_market_details","arguments":{"market_id":"m1"}}}` + "\n"

	resp := decodeResponse(t, runLines(t, server, input)[0])

	if resp.Error != nil {
		t.Fatalf("tool failures must not be protocol errors, got %+v", resp.Error)
	}

	var result toolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	if !result.IsError {
		t.Error("expected isError on repository failure")
	}

	if !strings.HasPrefix(result.Content[0].Text, "Error: API request failed: HTTP error: not found") {
		t.Errorf("unexpected text: %q", result.Content[0].Text)
	}
}

func TestServe_CallMissingRequiredArgument(t *testing.T) {
	server := newTestServer(&mockRepository{})

	input := `{"method":"tools/call","id":1,"params":{"name":"get_market_details","arguments":{}}}` + "\n"

	resp := decodeResponse(t, runLines(t, server, input)[0])

	var result toolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	if !result.IsError {
		t.Error("expected isError for missing required argument")
	}

	if got := result.Content[0].Text; got != "Error: market_id argument is required" {
		t.Errorf("unexpected text: %q", got)
	}
}

func TestServe_UnknownMethod(t *testing.T) {
	server := newTestServer(&mockRepository{})

	resp := decodeResponse(t, runLines(t, server, `{"method":"bogus/thing","id":7}`+"\n")[0])

	if resp.Error == nil {
		t.Fatal("expected protocol error")
	}

	if resp.Error.Code != -32601 {
		t.Errorf("expected code -32601, got %d", resp.Error.Code)
	}

	if resp.Error.Message != "Method not found" {
		t.Errorf("unexpected message: %q", resp.Error.Message)
	}

	if len(resp.Result) != 0 {
		t.Errorf("expected no result alongside error, got %s", resp.Result)
	}

	if resp.ID != float64(7) {
		t.Errorf("expected id echoed, got %v", resp.ID)
	}
}

func TestServe_MissingParamsName(t *testing.T) {
	server := newTestServer(&mockRepository{})

	resp := decodeResponse(t, runLines(t, server, `{"method":"tools/call","id":3,"params":{}}`+"\n")[0])

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("expected -32602 for missing name, got %+v", resp.Error)
	}

	if resp.Error.Message != "Invalid params" {
		t.Errorf("unexpected message: %q", resp.Error.Message)
	}
}

func TestServe_NotificationsProduceNoResponse(t *testing.T) {
	server := newTestServer(&mockRepository{})

	input := `{"method":"notifications/initialized"}` + "\n" +
		`{"method":"initialize","id":1}` + "\n"

	lines := runLines(t, server, input)
	if len(lines) != 1 {
		t.Fatalf("expected only the initialize response, got %d lines", len(lines))
	}
}

func TestServe_DropsUndecodableLines(t *testing.T) {
	server := newTestServer(&mockRepository{})

	input := "this is not json\n" +
		`{"id":1}` + "\n" +
		`{"method":5,"id":2}` + "\n" +
		`{"method":"initialize","id":3}` + "\n"

	lines := runLines(t, server, input)
	if len(lines) != 1 {
		t.Fatalf("expected the loop to survive bad lines and answer once, got %d lines", len(lines))
	}

	resp := decodeResponse(t, lines[0])
	if resp.ID != float64(3) {
		t.Errorf("expected response to the valid request, got id %v", resp.ID)
	}
}

func TestServe_EchoesNullIDWhenAbsent(t *testing.T) {
	server := newTestServer(&mockRepository{})

	lines := runLines(t, server, `{"method":"initialize"}`+"\n")

	if !strings.Contains(lines[0], `"id":null`) {
		t.Errorf("expected null id in response, got: %s", lines[0])
	}
}

func TestServe_FinalLineWithoutNewline(t *testing.T) {
	server := newTestServer(&mockRepository{})

	lines := runLines(t, server, `{"method":"initialize","id":9}`)
	if len(lines) != 1 {
		t.Fatalf("expected response to unterminated final line, got %d lines", len(lines))
	}
}

func TestServe_ReturnsContextError(t *testing.T) {
	server := newTestServer(&mockRepository{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := server.Serve(ctx, strings.NewReader(""), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context error, got %v", err)
	}
}
