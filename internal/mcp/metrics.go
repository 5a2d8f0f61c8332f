package mcp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsHandledTotal counts routed requests by method.
	requestsHandledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polymarket_mcp_requests_handled_total",
		Help: "Total number of protocol requests routed, by method",
	}, []string{"method"})

	// droppedLinesTotal counts input lines discarded before routing.
	droppedLinesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymarket_mcp_dropped_lines_total",
		Help: "Total number of input lines dropped as undecodable",
	})

	// notificationsTotal counts notifications, which get no response.
	notificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymarket_mcp_notifications_total",
		Help: "Total number of notification requests received",
	})
)

// methodLabel folds unrecognized methods into one label value to keep
// the metric's cardinality bounded.
func methodLabel(method string) string {
	switch method {
	case "initialize", "tools/list", "tools/call",
		"resources/list", "resources/read",
		"prompts/list", "prompts/get":
		return method
	default:
		return "unknown"
	}
}
