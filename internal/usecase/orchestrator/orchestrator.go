// Package orchestrator coordinates a full news run: every category feed of every
// registered provider is fetched, then every entry is resolved into a full article.
//
// Feed retrieval is fail-fast: one failed category aborts the run. Article extraction
// is isolated per entry: a failed article is logged and omitted.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/logging"
	"newswire/internal/observability/metrics"
	"newswire/internal/observability/tracing"
	"newswire/internal/usecase/feed"
	"newswire/internal/usecase/provider"
)

const defaultExtractParallelism = 4

// ArticleExtractor resolves an article URL into its content.
// Implementations report failures as *ExtractionError.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (*entity.ParsedArticle, error)
}

// RunStats summarizes one Process call.
type RunStats struct {
	RunID      string
	State      State
	Providers  int
	Categories int
	Entries    int
	Extracted  int
	Failed     int
	Duration   time.Duration
}

// Orchestrator runs the fetch and extraction pipeline over a provider registry.
type Orchestrator struct {
	registry            *provider.Registry
	fetcher             feed.FeedFetcher
	extractor           ArticleExtractor
	extractParallelism  int
	categoryParallelism int
	logger              *slog.Logger
	newRunID            func() string

	// run serializes Process calls.
	run sync.Mutex

	mu       sync.RWMutex
	state    State
	entries  *entity.ProviderEntries
	articles []entity.ParsedArticle
	stats    RunStats
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithExtractParallelism bounds concurrent article extractions. Values below 1 are ignored.
func WithExtractParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.extractParallelism = n
		}
	}
}

// WithCategoryParallelism bounds concurrent category fetches per provider. Values below 1 are ignored.
func WithCategoryParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.categoryParallelism = n
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRunIDGenerator replaces the uuid-based run ID generator.
func WithRunIDGenerator(gen func() string) Option {
	return func(o *Orchestrator) {
		if gen != nil {
			o.newRunID = gen
		}
	}
}

// New returns an orchestrator over registry.
func New(registry *provider.Registry, fetcher feed.FeedFetcher, extractor ArticleExtractor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:            registry,
		fetcher:             fetcher,
		extractor:           extractor,
		extractParallelism:  defaultExtractParallelism,
		categoryParallelism: 1,
		logger:              slog.Default(),
		newRunID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CategoryService returns a category service for the provider registered under key.
func (o *Orchestrator) CategoryService(key string) (*feed.CategoryService, bool) {
	p, ok := o.registry.Get(key)
	if !ok {
		return nil, false
	}
	return o.categoryService(p, o.logger), true
}

func (o *Orchestrator) categoryService(p *entity.NewsProvider, logger *slog.Logger) *feed.CategoryService {
	return feed.NewCategoryService(o.fetcher, p,
		feed.WithParallelism(o.categoryParallelism),
		feed.WithLogger(logger))
}

// FetchAll fetches every category of every provider, in registry order, keyed by
// provider base URL. Any provider failure aborts the whole fetch.
func (o *Orchestrator) FetchAll(ctx context.Context, limit entity.Limit) (*entity.ProviderEntries, error) {
	return o.fetchAll(ctx, limit, o.logger)
}

func (o *Orchestrator) fetchAll(ctx context.Context, limit entity.Limit, logger *slog.Logger) (result *entity.ProviderEntries, err error) {
	if err := limit.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.GetTracer().Start(ctx, "orchestrator.FetchAll")
	defer func() { tracing.EndSpan(span, err) }()

	result = entity.NewProviderEntries(o.registry.Len())
	for key, p := range o.registry.All() {
		categorized, err := o.categoryService(p, logger).FetchAllCategories(ctx, limit)
		if err != nil {
			logger.Error("provider fetch failed",
				slog.String("provider", key),
				slog.String("base_url", p.BaseURL()),
				slog.Any("error", err))
			return nil, fmt.Errorf("provider %s: %w", key, err)
		}
		result.Put(p.BaseURL(), categorized)
		logger.Info("provider feeds fetched",
			slog.String("provider", key),
			slog.Int("categories", categorized.Len()),
			slog.Int("entries", categorized.EntryCount()))
	}
	span.SetAttributes(attribute.Int("providers", result.Len()))
	return result, nil
}

// ExtractArticles resolves the entries of entries into articles.
//
// At most limit entries are taken from each category. Entries are visited provider by
// provider, category by category, and the returned articles keep that order. Nil entry
// slots are skipped. An entry whose extraction fails is logged and omitted.
//
// Only cancellation of ctx is fatal: the call then returns ctx.Err().
func (o *Orchestrator) ExtractArticles(ctx context.Context, entries *entity.ProviderEntries, limit entity.Limit) ([]entity.ParsedArticle, error) {
	articles, _, err := o.extractArticles(ctx, entries, limit, o.logger)
	return articles, err
}

type extractCounts struct {
	categories int
	entries    int
	failed     int
}

func (o *Orchestrator) extractArticles(ctx context.Context, entries *entity.ProviderEntries, limit entity.Limit, logger *slog.Logger) (articles []entity.ParsedArticle, counts extractCounts, err error) {
	if err := limit.Validate(); err != nil {
		return nil, counts, err
	}

	ctx, span := tracing.GetTracer().Start(ctx, "orchestrator.ExtractArticles")
	defer func() { tracing.EndSpan(span, err) }()

	var links []string
	if entries == nil {
		return []entity.ParsedArticle{}, counts, nil
	}
	for _, categorized := range entries.All() {
		for _, collection := range categorized.All() {
			counts.categories++
			for _, e := range collection.Truncate(limit).Present() {
				links = append(links, e.Link)
			}
		}
	}
	counts.entries = len(links)

	slots := make([]*entity.ParsedArticle, len(links))
	var failed atomic.Int64

	var eg errgroup.Group
	eg.SetLimit(o.extractParallelism)
	for i, link := range links {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			article, err := o.extractOne(ctx, link, logger)
			if err != nil {
				failed.Add(1)
				return nil
			}
			slots[i] = article
			return nil
		})
	}
	_ = eg.Wait()

	counts.failed = int(failed.Load())
	if err := ctx.Err(); err != nil {
		logger.Error("article extraction interrupted", slog.Any("error", err))
		return nil, counts, err
	}

	articles = make([]entity.ParsedArticle, 0, len(slots))
	for _, a := range slots {
		if a != nil {
			articles = append(articles, *a)
		}
	}
	span.SetAttributes(
		attribute.Int("entries", counts.entries),
		attribute.Int("extracted", len(articles)),
		attribute.Int("failed", counts.failed))
	return articles, counts, nil
}

func (o *Orchestrator) extractOne(ctx context.Context, link string, logger *slog.Logger) (*entity.ParsedArticle, error) {
	start := time.Now()
	article, err := o.extractor.Extract(ctx, link)
	if err == nil && article == nil {
		err = errors.New("extractor returned no article")
	}
	if err != nil {
		var extractErr *ExtractionError
		if !errors.As(err, &extractErr) {
			err = &ExtractionError{URL: link, Err: err}
		}
		metrics.RecordArticleExtractionFailed(time.Since(start))
		if ctx.Err() == nil {
			logger.Warn("failed to extract article, skipping",
				slog.String("url", link),
				slog.Any("error", err))
		}
		return nil, err
	}
	metrics.RecordArticleExtracted(time.Since(start), len(article.Body))
	return article, nil
}

// Process runs FetchAll followed by ExtractArticles under a fresh run ID and keeps the
// results for ProviderEntries and ParsedArticles. A feed failure fails the whole call.
func (o *Orchestrator) Process(ctx context.Context, limit entity.Limit) (articles []entity.ParsedArticle, err error) {
	if err := limit.Validate(); err != nil {
		return nil, err
	}

	o.run.Lock()
	defer o.run.Unlock()

	runID := o.newRunID()
	logger := logging.WithRunID(o.logger, runID)
	ctx = logging.WithLogger(ctx, logger)
	start := time.Now()

	ctx, span := tracing.GetTracer().Start(ctx, "orchestrator.Process")
	span.SetAttributes(attribute.String("run_id", runID), attribute.String("limit", limit.String()))
	defer func() { tracing.EndSpan(span, err) }()

	o.reset(runID)
	logger.Info("run started", slog.Int("providers", o.registry.Len()), slog.String("limit", limit.String()))

	o.setState(StateFetchingFeeds)
	entries, err := o.fetchAll(ctx, limit, logger)
	if err != nil {
		o.finish(StateFetchFailed, start, logger)
		return nil, err
	}

	o.mu.Lock()
	o.entries = entries
	o.stats.Providers = entries.Len()
	o.mu.Unlock()
	o.setState(StateFeedsReady)

	o.setState(StateExtractingArticles)
	articles, counts, err := o.extractArticles(ctx, entries, limit, logger)

	o.mu.Lock()
	o.stats.Categories = counts.categories
	o.stats.Entries = counts.entries
	o.stats.Failed = counts.failed
	o.stats.Extracted = len(articles)
	o.articles = articles
	o.mu.Unlock()

	if err != nil {
		o.finish(StateExtractFailed, start, logger)
		return nil, err
	}
	o.finish(StateDone, start, logger)
	return articles, nil
}

func (o *Orchestrator) reset(runID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateIdle
	o.entries = nil
	o.articles = nil
	o.stats = RunStats{RunID: runID, State: StateIdle}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.stats.State = s
	o.mu.Unlock()
}

func (o *Orchestrator) finish(s State, start time.Time, logger *slog.Logger) {
	duration := time.Since(start)
	o.mu.Lock()
	o.state = s
	o.stats.State = s
	o.stats.Duration = duration
	stats := o.stats
	o.mu.Unlock()

	metrics.RecordOrchestrationRun(s.String(), duration)

	attrs := []any{
		slog.String("state", s.String()),
		slog.Int("providers", stats.Providers),
		slog.Int("categories", stats.Categories),
		slog.Int("entries", stats.Entries),
		slog.Int("extracted", stats.Extracted),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", duration),
	}
	if s == StateDone {
		logger.Info("run completed", attrs...)
	} else {
		logger.Error("run failed", attrs...)
	}
}

// State returns the phase of the current or most recent Process call.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// ProviderEntries returns the feeds fetched by the most recent Process call, or nil.
func (o *Orchestrator) ProviderEntries() *entity.ProviderEntries {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.entries
}

// ParsedArticles returns the articles of the most recent Process call, or nil.
func (o *Orchestrator) ParsedArticles() []entity.ParsedArticle {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.articles
}

// Stats returns the statistics of the most recent Process call.
func (o *Orchestrator) Stats() RunStats {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.stats
}
