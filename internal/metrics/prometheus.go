// Package metrics provides Prometheus exporters for pipeline metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the leaderboard tracker.
var (
	// Counters.
	FetchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fits_fetch_runs_total",
			Help: "Total number of fetch orchestrations by outcome",
		},
		[]string{"status"},
	)

	FetchEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fits_fetch_entries_total",
			Help: "Total number of leaderboard entries fetched",
		},
		[]string{"statistic"},
	)

	UpsertFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fits_upsert_failures_total",
			Help: "Total number of per-row upsert failures",
		},
		[]string{"kind"},
	)

	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fits_aggregations_total",
			Help: "Total number of period aggregation runs",
		},
		[]string{"period", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fits_api_requests_total",
			Help: "Total number of read API requests",
		},
		[]string{"endpoint", "status"},
	)

	// Gauges.
	KnownPlayers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fits_known_players",
			Help: "Current number of distinct players ever observed",
		},
	)

	// Histograms.
	PageFetchSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fits_page_fetch_seconds",
			Help:    "Upstream page fetch latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)
