// Package metrics tracks API client and cache activity for the stats
// endpoint and the Prometheus registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts logical upstream API calls; retry attempts
	// within a call are not counted separately.
	APIRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymarket_mcp_api_requests_total",
		Help: "Total number of Gamma API requests",
	})

	// APIRequestsFailedTotal counts API calls that exhausted all retries.
	APIRequestsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymarket_mcp_api_requests_failed_total",
		Help: "Total number of Gamma API requests that failed after retries",
	})

	// CacheHitsTotal counts query cache hits.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymarket_mcp_cache_hits_total",
		Help: "Total number of query cache hits",
	})

	// CacheMissesTotal counts query cache misses.
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymarket_mcp_cache_misses_total",
		Help: "Total number of query cache misses",
	})

	// APIResponseTime tracks successful API call latency.
	APIResponseTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "polymarket_mcp_api_response_time_seconds",
		Help:    "Latency of successful Gamma API calls",
		Buckets: prometheus.DefBuckets,
	})
)

// Metrics is a shared, snapshot-able view of client activity. A single
// instance is injected into the API client and the protocol server so
// both report into the same counters.
type Metrics struct {
	mu                sync.Mutex
	requestsTotal     uint64
	requestsFailed    uint64
	cacheHits         uint64
	cacheMisses       uint64
	activeConnections uint64
	avgResponseTimeMS float64
}

// New creates a zeroed metrics instance.
func New() *Metrics {
	return &Metrics{}
}

// IncAPIRequests records the start of an API call.
func (m *Metrics) IncAPIRequests() {
	m.mu.Lock()
	m.requestsTotal++
	m.mu.Unlock()

	APIRequestsTotal.Inc()
}

// IncAPIFailures records an API call that failed after all retries.
func (m *Metrics) IncAPIFailures() {
	m.mu.Lock()
	m.requestsFailed++
	m.mu.Unlock()

	APIRequestsFailedTotal.Inc()
}

// IncCacheHits records a query cache hit.
func (m *Metrics) IncCacheHits() {
	m.mu.Lock()
	m.cacheHits++
	m.mu.Unlock()

	CacheHitsTotal.Inc()
}

// IncCacheMisses records a query cache miss.
func (m *Metrics) IncCacheMisses() {
	m.mu.Lock()
	m.cacheMisses++
	m.mu.Unlock()

	CacheMissesTotal.Inc()
}

// SetActiveConnections records the current number of open sessions.
func (m *Metrics) SetActiveConnections(n uint64) {
	m.mu.Lock()
	m.activeConnections = n
	m.mu.Unlock()
}

// UpdateAvgResponseTime folds a new sample, in milliseconds, into the
// running average. The request counted by the matching IncAPIRequests
// call is the divisor, so samples must follow their increment.
func (m *Metrics) UpdateAvgResponseTime(sampleMS float64) {
	m.mu.Lock()

	n := m.requestsTotal
	if n > 0 {
		m.avgResponseTimeMS = (m.avgResponseTimeMS*float64(n-1) + sampleMS) / float64(n)
	}

	m.mu.Unlock()

	APIResponseTime.Observe(sampleMS / 1000)
}

// Snapshot is a point-in-time copy of the counters with derived ratios.
type Snapshot struct {
	APIRequestsTotal  uint64  `json:"api_requests_total"`
	APIRequestsFailed uint64  `json:"api_requests_failed"`
	CacheHits         uint64  `json:"cache_hits"`
	CacheMisses       uint64  `json:"cache_misses"`
	AvgResponseTimeMS float64 `json:"avg_response_time_ms"`
	ActiveConnections uint64  `json:"active_connections"`
	CacheHitRatio     float64 `json:"cache_hit_ratio"`
	ErrorRate         float64 `json:"error_rate"`
}

// Snapshot returns a consistent copy of all counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		APIRequestsTotal:  m.requestsTotal,
		APIRequestsFailed: m.requestsFailed,
		CacheHits:         m.cacheHits,
		CacheMisses:       m.cacheMisses,
		AvgResponseTimeMS: m.avgResponseTimeMS,
		ActiveConnections: m.activeConnections,
	}

	if total := m.cacheHits + m.cacheMisses; total > 0 {
		snap.CacheHitRatio = float64(m.cacheHits) / float64(total)
	}

	if m.requestsTotal > 0 {
		snap.ErrorRate = float64(m.requestsFailed) / float64(m.requestsTotal)
	}

	return snap
}
