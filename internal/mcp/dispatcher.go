package mcp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Serve reads requests from r one line at a time and writes one
// response line per non-notification request to w, flushed after every
// write. Lines that do not decode into a request envelope are dropped.
// Serve returns nil when the input stream ends.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	s.metrics.SetActiveConnections(1)
	defer s.metrics.SetActiveConnections(0)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadBytes('\n')

		// A final line without a trailing newline still gets handled.
		if len(line) > 0 {
			if resp := s.handleLine(ctx, line); resp != nil {
				if werr := writeResponse(writer, resp); werr != nil {
					return fmt.Errorf("write response: %w", werr)
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("read request line: %w", err)
		}
	}
}

// handleLine decodes and routes one input line, returning nil when no
// response line is owed.
func (s *Server) handleLine(ctx context.Context, line []byte) *response {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil
	}

	var req request

	err := json.Unmarshal(trimmed, &req)
	if err != nil {
		droppedLinesTotal.Inc()
		s.logger.Debug("dropped-undecodable-line", zap.Error(err))

		return nil
	}

	if req.Method == nil {
		droppedLinesTotal.Inc()
		s.logger.Debug("dropped-request-without-method")

		return nil
	}

	method := *req.Method

	if strings.HasPrefix(method, notificationPrefix) {
		notificationsTotal.Inc()
		s.logger.Debug("notification-received", zap.String("method", method))

		return nil
	}

	return s.route(ctx, method, req)
}

// route builds the response for one decoded request.
func (s *Server) route(ctx context.Context, method string, req request) *response {
	requestsHandledTotal.WithLabelValues(methodLabel(method)).Inc()

	resp := &response{JSONRPC: "2.0", ID: req.ID}

	switch method {
	case "initialize":
		resp.Result = initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo: serverInfo{
				Name:    serverName,
				Version: serverVersion,
			},
		}

	case "tools/list":
		resp.Result = toolListResult{Tools: toolCatalog()}

	case "tools/call":
		params, ok := decodeParams[callParams](req.Params)
		if !ok || params.Name == nil {
			resp.Error = invalidParams()
			return resp
		}

		resp.Result = s.callTool(ctx, *params.Name, decodeArgs(params.Arguments))

	case "resources/list":
		resp.Result = s.listResources()

	case "resources/read":
		params, ok := decodeParams[readParams](req.Params)
		if !ok || params.URI == nil {
			resp.Error = invalidParams()
			return resp
		}

		resp.Result = s.readResource(ctx, *params.URI)

	case "prompts/list":
		resp.Result = s.listPrompts()

	case "prompts/get":
		params, ok := decodeParams[promptParams](req.Params)
		if !ok || params.Name == nil {
			resp.Error = invalidParams()
			return resp
		}

		resp.Result = s.getPrompt(ctx, *params.Name, decodeArgs(params.Arguments))

	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
	}

	return resp
}

// decodeParams decodes the params member into P. Missing params decode
// as the zero value; malformed params report failure.
func decodeParams[P any](raw json.RawMessage) (P, bool) {
	var params P

	if len(raw) == 0 {
		return params, true
	}

	if err := json.Unmarshal(raw, &params); err != nil {
		var zero P
		return zero, false
	}

	return params, true
}

func invalidParams() *rpcError {
	return &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
}

// writeResponse writes resp as a single newline-terminated line and
// flushes it.
func writeResponse(w *bufio.Writer, resp *response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return err
	}

	if err := w.WriteByte('\n'); err != nil {
		return err
	}

	return w.Flush()
}
