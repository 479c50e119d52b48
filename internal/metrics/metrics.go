// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests.
	// Labels: method, route (chi pattern), status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// GenrePropagationUpdates counts records whose embedded genre name was rewritten.
	// Labels: collection ("contents", "streaming_types").
	GenrePropagationUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genre_propagation_updates_total",
			Help: "Records updated by genre rename propagation",
		},
		[]string{"collection"},
	)

	GenrePropagationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genre_propagation_failures_total",
			Help: "Genre rename propagation failures per dependent collection",
		},
		[]string{"collection"},
	)

	// MetadataRequests counts calls to the external metadata provider.
	// Labels: endpoint, outcome ("success", "failure", "rejected").
	MetadataRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_requests_total",
			Help: "Requests to the external metadata provider",
		},
		[]string{"endpoint", "outcome"},
	)
)
