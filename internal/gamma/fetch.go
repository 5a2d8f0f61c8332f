package gamma

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mselser95/polymarket-mcp/pkg/types"
)

// getJSON performs a GET against url and decodes the body into T,
// retrying failed attempts with exponential backoff. One call counts as
// one API request in the metrics no matter how many attempts it takes;
// the failure counter moves only when every attempt has failed.
func getJSON[T any](ctx context.Context, c *Client, url string) (T, error) {
	var zero T

	c.metrics.IncAPIRequests()
	start := time.Now()

	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		RetryAttemptsTotal.Inc()

		result, err := tryGetJSON[T](ctx, c, url)
		if err == nil {
			c.metrics.UpdateAvgResponseTime(float64(time.Since(start).Milliseconds()))
			return result, nil
		}

		lastErr = err
		RequestErrorsTotal.WithLabelValues(errorCategory(err)).Inc()

		if attempt < c.cfg.MaxRetries {
			delay := c.cfg.RetryBaseDelay * (1 << attempt)

			c.logger.Debug("retrying-request",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	c.metrics.IncAPIFailures()

	if lastErr == nil {
		lastErr = types.NewNetworkError("All retry attempts failed")
	}

	c.logger.Error("request-failed",
		zap.String("url", url),
		zap.Int("attempts", c.cfg.MaxRetries),
		zap.Error(lastErr))

	return zero, lastErr
}

// tryGetJSON performs a single request attempt.
func tryGetJSON[T any](ctx context.Context, c *Client, url string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zero, types.NewNetworkError(fmt.Sprintf("Request error: %v", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "polymarket-mcp/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, types.NewNetworkError(fmt.Sprintf("Request error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(resp.Body)

		text := string(body)
		if readErr != nil {
			text = ""
		}

		return zero, types.NewAPIError(fmt.Sprintf("HTTP error: %s", text), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, types.NewNetworkError(fmt.Sprintf("Response reading error: %v", err))
	}

	var result T
	err = json.Unmarshal(body, &result)
	if err != nil {
		return zero, types.NewDeserializationError(
			fmt.Sprintf("JSON parsing error: %v - Response: %s", err, snippet(body, 200)))
	}

	return result, nil
}

// snippet returns at most n leading bytes of body for error messages.
func snippet(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}

	return string(body)
}

// errorCategory maps a client error to its metrics label.
func errorCategory(err error) string {
	switch err.(type) {
	case *types.APIError:
		return "api"
	case *types.NetworkError:
		return "network"
	case *types.DeserializationError:
		return "deserialization"
	default:
		return "other"
	}
}
