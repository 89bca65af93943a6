// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the chat relay gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, path, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatgate_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and path.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatgate_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// StreamingConnections tracks the number of in-flight chat streams.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatgate_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)

	// UpstreamRequestsTotal counts upstream calls by outcome: "ok" or the
	// error kind from the taxonomy (auth, rate_limit, connection, timeout,
	// upstream, internal).
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatgate_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"outcome"},
	)

	// UpstreamSetupLatency records the pre-stream phase duration of
	// successful upstream calls (request sent until response headers).
	UpstreamSetupLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatgate_upstream_setup_latency_seconds",
			Help:    "Upstream call setup latency",
			Buckets: LLMBuckets,
		},
	)

	// RelayedChunksTotal counts text chunks relayed to callers.
	RelayedChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatgate_relayed_chunks_total",
			Help: "Relayed stream chunks",
		},
	)

	// StreamTruncationsTotal counts streams terminated by an in-stream
	// failure after the response status was committed.
	StreamTruncationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatgate_stream_truncations_total",
			Help: "Streams truncated by in-stream failures",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
		UpstreamRequestsTotal,
		UpstreamSetupLatency,
		RelayedChunksTotal,
		StreamTruncationsTotal,
	)
}
