// Package resilience provides fault tolerance patterns for the outbound HTTP calls
// of the news pipeline.
//
// The circuitbreaker subpackage wraps github.com/sony/gobreaker so that a provider
// whose feeds or article pages keep failing is short-circuited instead of being
// hammered for every category and entry of a run.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	feed, err := circuitbreaker.Run(cb, func() (*gofeed.Feed, error) {
//	    return parser.ParseURLWithContext(url, ctx)
//	})
//
// Failed calls are never retried. Each failure is reported once to the caller.
package resilience
