// Package mcp implements the line-oriented protocol served over
// stdin/stdout: JSON-RPC responses to tool, resource, and prompt
// requests backed by the market repository.
package mcp

import (
	json "github.com/goccy/go-json"

	"github.com/mselser95/polymarket-mcp/pkg/types"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "polymarket-mcp"
	serverVersion   = "1.0.0"
)

// JSON-RPC error codes used for protocol-level failures.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// notificationPrefix marks methods that never produce a response line.
const notificationPrefix = "notifications/"

// request is one decoded input line. Method is a pointer so a request
// that omits it can be told apart from one carrying an empty string.
type request struct {
	Method *string         `json:"method"`
	ID     json.RawMessage `json:"id,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// response is one output line. ID always appears, echoing the request
// id or null when the request had none.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type callParams struct {
	Name      *string         `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type readParams struct {
	URI *string `json:"uri"`
}

type promptParams struct {
	Name      *string         `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      serverInfo   `json:"serverInfo"`
}

type capabilities struct {
	Tools     struct{} `json:"tools"`
	Resources struct{} `json:"resources"`
	Prompts   struct{} `json:"prompts"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type toolListResult struct {
	Tools []toolDescriptor `json:"tools"`
}

type toolDescriptor struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema toolSchema `json:"inputSchema"`
}

type toolSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

type schemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toolResult wraps a tool outcome. Failures set IsError and keep the
// message in the text content; they are never protocol errors.
type toolResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// resourceDescriptor is a resources/list entry. The listing key is
// snake_case while read contents use camelCase mimeType.
type resourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mime_type"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

type resourceListResult struct {
	Resources []resourceDescriptor `json:"resources"`
	Error     string               `json:"error,omitempty"`
}

type resourceReadResult struct {
	Contents []resourceContent `json:"contents"`
	Error    string            `json:"error,omitempty"`
}

type promptListResult struct {
	Prompts []promptDescriptor `json:"prompts"`
	Error   string             `json:"error,omitempty"`
}

type promptDescriptor struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Arguments   []promptArgument `json:"arguments"`
}

type promptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// promptMessage content is a bare string rather than a typed content
// object.
type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type promptResult struct {
	Messages []promptMessage `json:"messages"`
	Error    string          `json:"error,omitempty"`
}

// marketsPayload is the tool result body shared by the market
// collection tools.
type marketsPayload struct {
	Markets   []types.Market  `json:"markets"`
	Count     int             `json:"count"`
	RequestID types.RequestID `json:"request_id,omitempty"`
	Keyword   string          `json:"keyword,omitempty"`
}

type pricesPayload struct {
	MarketID string              `json:"market_id"`
	Prices   []types.MarketPrice `json:"prices"`
}

// resourceDocument is the rendered body of a market collection
// resource.
type resourceDocument struct {
	Markets     []types.Market `json:"markets"`
	Count       int            `json:"count"`
	LastUpdated string         `json:"last_updated"`
}
