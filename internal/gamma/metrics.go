package gamma

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RetryAttemptsTotal counts individual request attempts, first tries included.
	RetryAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymarket_gamma_request_attempts_total",
		Help: "Total number of Gamma API request attempts",
	})

	// RequestErrorsTotal counts failed attempts by error category.
	RequestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polymarket_gamma_request_errors_total",
		Help: "Total number of failed Gamma API request attempts",
	}, []string{"category"})

	// BatchChunksTotal counts chunk fetches issued by batch lookups.
	BatchChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polymarket_gamma_batch_chunks_total",
		Help: "Total number of chunked batch fetches",
	})
)
