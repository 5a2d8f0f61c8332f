package app

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/mselser95/polymarket-mcp/pkg/config"
)

const testMarketBody = `{"id":"m1","slug":"rain-tomorrow","question":"Will it rain tomorrow?",` +
	`"description":"Rain market","active":true,"closed":false,` +
	`"liquidity":"1000","volume":"5000","endDate":"2025-12-31T00:00:00Z",` +
	`"category":"Weather","outcomes":"[\"Yes\",\"No\"]","outcomePrices":"[\"0.6\",\"0.4\"]"}`

type rpcLine struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		LogLevel:             "info",
		GammaBaseURL:         baseURL,
		APITimeout:           5 * time.Second,
		MaxRetries:           1,
		RetryBaseDelay:       10 * time.Millisecond,
		CacheEnabled:         true,
		CacheTTL:             time.Minute,
		ResourceCacheEnabled: true,
		ResourceCacheTTL:     time.Minute,
	}
}

func newTestBackend(listHits, detailHits *atomic.Int64) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/markets", func(w http.ResponseWriter, r *http.Request) {
		listHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + testMarketBody + "]"))
	})
	mux.HandleFunc("/markets/m1", func(w http.ResponseWriter, r *http.Request) {
		detailHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testMarketBody))
	})

	return httptest.NewServer(mux)
}

// TestApp_EndToEndProtocolFlow drives a full session through the wired
// application: requests go in as lines on stdin, responses come back as
// lines on stdout, and market data is served by a fake Gamma backend.
func TestApp_EndToEndProtocolFlow(t *testing.T) {
	var listHits, detailHits atomic.Int64

	backend := newTestBackend(&listHits, &detailHits)
	defer backend.Close()

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_market_details","arguments":{"market_id":"m1"}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"resources/read","params":{"uri":"markets:active"}}`,
		`this line is not json`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":5,"method":"bogus/method"}`,
	}, "\n") + "\n"

	var out strings.Builder

	application, err := New(testConfig(backend.URL), zaptest.NewLogger(t), &Options{
		Stdin:  strings.NewReader(input),
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	// Run blocks until stdin is exhausted, then shuts down.
	err = application.Run()
	if err != nil {
		t.Fatalf("run app: %v", err)
	}

	var lines []rpcLine

	raw := make([]string, 0, 8)
	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	for scanner.Scan() {
		raw = append(raw, scanner.Text())

		var line rpcLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("decode response line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, line)
	}

	if len(lines) != 5 {
		t.Fatalf("expected 5 responses, got %d: %v", len(lines), raw)
	}

	var initResult struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(lines[0].Result, &initResult); err != nil {
		t.Fatalf("decode initialize result: %v", err)
	}

	if initResult.ProtocolVersion != "2024-11-05" {
		t.Errorf("unexpected protocol version: %s", initResult.ProtocolVersion)
	}

	if initResult.ServerInfo.Name != "polymarket-mcp" {
		t.Errorf("unexpected server name: %s", initResult.ServerInfo.Name)
	}

	var toolList struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(lines[1].Result, &toolList); err != nil {
		t.Fatalf("decode tools/list result: %v", err)
	}

	if len(toolList.Tools) != 5 {
		t.Errorf("expected 5 tools, got %d", len(toolList.Tools))
	}

	if !strings.Contains(raw[2], "Will it rain tomorrow?") {
		t.Errorf("expected market details in tool response, got %s", raw[2])
	}

	if strings.Contains(raw[2], "isError") {
		t.Errorf("expected success tool response, got %s", raw[2])
	}

	if !strings.Contains(raw[3], "last_updated") {
		t.Errorf("expected rendered resource document, got %s", raw[3])
	}

	if lines[4].Error == nil || lines[4].Error.Code != -32601 {
		t.Errorf("expected method-not-found error, got %s", raw[4])
	}

	if got := detailHits.Load(); got != 1 {
		t.Errorf("expected 1 detail fetch, got %d", got)
	}

	if got := listHits.Load(); got != 1 {
		t.Errorf("expected 1 list fetch, got %d", got)
	}
}

// TestApp_DebugServerLifecycle exercises the optional debug server: Run must
// come back promptly once stdin closes, with the HTTP listener drained.
func TestApp_DebugServerLifecycle(t *testing.T) {
	var listHits, detailHits atomic.Int64

	backend := newTestBackend(&listHits, &detailHits)
	defer backend.Close()

	cfg := testConfig(backend.URL)
	cfg.MetricsPort = "0"

	var out strings.Builder

	application, err := New(cfg, zaptest.NewLogger(t), &Options{
		Stdin:  strings.NewReader(""),
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	if application.debugServer == nil {
		t.Fatal("expected debug server when metrics port is set")
	}

	start := time.Now()

	err = application.Run()
	if err != nil {
		t.Fatalf("run app: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("shutdown took too long: %s", elapsed)
	}
}

func TestApp_SkipsDebugServerWithoutPort(t *testing.T) {
	var listHits, detailHits atomic.Int64

	backend := newTestBackend(&listHits, &detailHits)
	defer backend.Close()

	application, err := New(testConfig(backend.URL), zap.NewNop(), &Options{
		Stdin:  strings.NewReader(""),
		Stdout: &strings.Builder{},
	})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	if application.debugServer != nil {
		t.Error("expected no debug server without a metrics port")
	}
}

func TestApp_RejectsMalformedAPIKey(t *testing.T) {
	cfg := testConfig("https://gamma-api.polymarket.com")
	cfg.APIKey = "secret\nwith-newline"

	_, err := New(cfg, zap.NewNop(), nil)
	if err == nil {
		t.Fatal("expected setup error for malformed API key")
	}

	if !strings.Contains(err.Error(), "setup gamma client") {
		t.Errorf("unexpected error: %v", err)
	}
}
