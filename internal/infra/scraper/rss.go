// Package scraper provides the RSS/Atom feed fetcher.
// It uses the gofeed library to parse feed content behind a circuit breaker.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"newswire/internal/domain/entity"
	"newswire/internal/resilience/circuitbreaker"
	"newswire/internal/usecase/feed"
)

// RSSFetcher implements feed.FeedFetcher using the gofeed library.
// Each call makes exactly one HTTP request; failures are classified and never retried.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         FeedConfig
	logger         *slog.Logger
}

// NewRSSFetcher creates a new RSSFetcher. A nil client gets one with cfg.Timeout.
func NewRSSFetcher(client *http.Client, cfg FeedConfig, logger *slog.Logger) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	cbConfig := circuitbreaker.FeedFetchConfig()
	cbConfig.Logger = logger
	// A missing feed says nothing about the health of the feed host.
	cbConfig.IsSuccessful = func(err error) bool {
		return circuitbreaker.CountsAsSuccess(err) || errors.Is(err, feed.ErrNotFound)
	}
	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(cbConfig),
		config:         cfg,
		logger:         logger,
	}
}

// Fetch retrieves and parses the feed at feedURL and returns at most limit entries.
// An item without a link becomes a nil slot. An empty feed yields an empty collection.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string, limit entity.Limit) (entity.EntryCollection, error) {
	if err := limit.Validate(); err != nil {
		return nil, err
	}

	parsed, err := circuitbreaker.Run(f.circuitBreaker, func() (*gofeed.Feed, error) {
		return f.doFetch(ctx, feedURL)
	})
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			f.logger.Warn("feed fetch circuit breaker open, request rejected",
				slog.String("service", f.circuitBreaker.Name()),
				slog.String("url", feedURL),
				slog.String("state", f.circuitBreaker.State().String()))
			return nil, &feed.FetchError{Kind: feed.KindTransient, URL: feedURL, Err: err}
		}
		return nil, err
	}

	items := parsed.Items[:limit.Apply(len(parsed.Items))]
	entries := make(entity.EntryCollection, len(items))
	for i, it := range items {
		if it == nil || strings.TrimSpace(it.Link) == "" {
			f.logger.Debug("feed item without link", slog.String("url", feedURL), slog.Int("index", i))
			continue
		}
		entries[i] = entity.NewEntry(strings.TrimSpace(it.Title), strings.TrimSpace(it.Link))
	}
	return entries, nil
}

// doFetch performs one request and parse without the circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &feed.FetchError{Kind: feed.KindMalformed, URL: feedURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &feed.FetchError{Kind: feed.KindTransient, URL: feedURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, &feed.FetchError{Kind: feed.KindNotFound, URL: feedURL, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &feed.FetchError{Kind: feed.KindTransient, URL: feedURL, StatusCode: resp.StatusCode,
			Err: errors.New(resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, &feed.FetchError{Kind: feed.KindTransient, URL: feedURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, &feed.FetchError{Kind: feed.KindMalformed, URL: feedURL,
			Err: fmt.Errorf("feed exceeds %d bytes", f.config.MaxBodySize)}
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &feed.FetchError{Kind: feed.KindMalformed, URL: feedURL, Err: err}
	}
	return parsed, nil
}
