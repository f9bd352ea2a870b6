package metrics

import "time"

// RecordFeedFetch records a successful category feed fetch.
func RecordFeedFetch(provider, category string, duration time.Duration, entries int) {
	FeedFetchesTotal.WithLabelValues(provider, category, "success").Inc()
	FeedFetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if entries > 0 {
		FeedEntriesTotal.WithLabelValues(provider, category).Add(float64(entries))
	}
}

// RecordFeedFetchError records a failed category feed fetch.
// Kind should be one of transient, not_found, malformed or invalid_argument.
func RecordFeedFetchError(provider, category, kind string) {
	FeedFetchesTotal.WithLabelValues(provider, category, "failure").Inc()
	FeedFetchErrors.WithLabelValues(provider, kind).Inc()
}

// RecordArticleExtracted records a successful extraction and the body size.
func RecordArticleExtracted(duration time.Duration, bodySize int) {
	ArticleExtractionsTotal.WithLabelValues("success").Inc()
	ArticleExtractionDuration.Observe(duration.Seconds())
	ArticleBodySize.Observe(float64(bodySize))
}

// RecordArticleExtractionFailed records an extraction that was skipped because it failed.
func RecordArticleExtractionFailed(duration time.Duration) {
	ArticleExtractionsTotal.WithLabelValues("failure").Inc()
	ArticleExtractionDuration.Observe(duration.Seconds())
}

// RecordOrchestrationRun records the terminal state and duration of a Process call.
func RecordOrchestrationRun(state string, duration time.Duration) {
	OrchestrationRunsTotal.WithLabelValues(state).Inc()
	OrchestrationRunDuration.Observe(duration.Seconds())
}
