// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed metrics track category feed retrieval.
var (
	// FeedFetchesTotal counts category feed fetches by provider, category and result
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total number of category feed fetches",
		},
		[]string{"provider", "category", "result"},
	)

	// FeedFetchDuration measures time to fetch one category feed
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch a category feed",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"provider"},
	)

	// FeedEntriesTotal counts entry slots returned by category feeds
	FeedEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_entries_total",
			Help: "Total number of entries returned by category feeds",
		},
		[]string{"provider", "category"},
	)

	// FeedFetchErrors counts feed fetch failures by kind (transient, not_found, malformed)
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed fetch errors",
		},
		[]string{"provider", "kind"},
	)
)

// Article metrics track full article extraction.
var (
	// ArticleExtractionsTotal counts extraction attempts by result (success, failure)
	ArticleExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_extractions_total",
			Help: "Total number of article extraction attempts",
		},
		[]string{"result"},
	)

	// ArticleExtractionDuration measures time to extract one article
	ArticleExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_extraction_duration_seconds",
			Help:    "Time taken to extract an article",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// ArticleBodySize measures extracted body size in bytes
	ArticleBodySize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_body_size_bytes",
			Help:    "Extracted article body size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 2, 16),
		},
	)
)

// Orchestration metrics track whole Process calls.
var (
	// OrchestrationRunsTotal counts Process calls by terminal state
	OrchestrationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestration_runs_total",
			Help: "Total number of orchestration runs by terminal state",
		},
		[]string{"state"},
	)

	// OrchestrationRunDuration measures the duration of a Process call
	OrchestrationRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orchestration_run_duration_seconds",
			Help:    "Duration of an orchestration run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)
)
