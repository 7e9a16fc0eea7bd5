// Package metrics holds the Prometheus collectors shared across modules.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SearchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "truck_search_results",
			Help:    "Number of records returned per search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"operation"},
	)

	RegistryRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "truck_registry_records",
			Help: "Number of records in the active registry snapshot",
		},
	)

	RegistryReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "truck_registry_reloads_total",
			Help: "Registry reload attempts by result",
		},
		[]string{"result"},
	)
)
