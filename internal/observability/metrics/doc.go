// Package metrics provides the Prometheus collectors of the news pipeline.
//
// Collectors are registered with the default registry on package load and exposed
// through the /metrics endpoint of the CLI's metrics server.
//
// Example usage:
//
//	start := time.Now()
//	entries, err := fetcher.Fetch(ctx, url, limit)
//	if err != nil {
//	    metrics.RecordFeedFetchError(provider, category, "transient")
//	}
//	metrics.RecordFeedFetch(provider, category, time.Since(start), len(entries))
package metrics
