package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal tracks logical RPC operations issued per method
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execrpc_rpc_calls_total",
			Help: "Total number of logical RPC operations issued",
		},
		[]string{"method"},
	)

	// RPCErrorsTotal tracks operations that failed after all retries
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execrpc_rpc_errors_total",
			Help: "Total number of RPC operations that surfaced an error",
		},
		[]string{"method"},
	)

	// RPCRetriesTotal tracks backoff retries per method
	RPCRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execrpc_rpc_retries_total",
			Help: "Total number of retry attempts made by the backoff policy",
		},
		[]string{"method"},
	)

	// RPCLatency tracks end-to-end operation latency including retries
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "execrpc_rpc_latency_seconds",
			Help:    "RPC operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
