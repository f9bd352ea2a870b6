package feed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/observability/tracing"
)

// FeedFetcher retrieves and parses one RSS/Atom feed.
// Implementations return at most limit entries, an empty non-nil collection for an
// empty feed, and a *FetchError on failure.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string, limit entity.Limit) (entity.EntryCollection, error)
}

// CategoryService fetches the category feeds of a single provider.
type CategoryService struct {
	fetcher     FeedFetcher
	provider    *entity.NewsProvider
	parallelism int
	logger      *slog.Logger
}

// Option configures a CategoryService.
type Option func(*CategoryService)

// WithParallelism bounds the number of category feeds fetched at once. Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(s *CategoryService) {
		if n >= 1 {
			s.parallelism = n
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *CategoryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCategoryService returns a service bound to provider.
func NewCategoryService(fetcher FeedFetcher, provider *entity.NewsProvider, opts ...Option) *CategoryService {
	s := &CategoryService{
		fetcher:     fetcher,
		provider:    provider,
		parallelism: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the provider the service is bound to.
func (s *CategoryService) Provider() *entity.NewsProvider {
	return s.provider
}

// AvailableCategories returns the provider's category names in declaration order.
func (s *CategoryService) AvailableCategories() []string {
	return s.provider.Categories().Names()
}

// FetchCategory fetches the feed of one category.
//
// The limit is validated before any network access. Fetcher errors are returned
// unchanged and are not retried.
func (s *CategoryService) FetchCategory(ctx context.Context, category entity.Category, limit entity.Limit) (entity.EntryCollection, error) {
	if err := limit.Validate(); err != nil {
		return nil, err
	}
	if known, ok := s.provider.Categories().Lookup(category.Name); !ok || known != category {
		return nil, &entity.ValidationError{Field: "category", Message: "category " + category.Name + " is not offered by " + s.provider.BaseURL()}
	}
	return s.fetch(ctx, category, limit)
}

// FetchAllCategories fetches every category of the provider and returns them keyed
// by category name in declaration order.
//
// Unlike article extraction, this fails fast: the first category that cannot be
// fetched aborts the provider's aggregation and no partial mapping is returned.
func (s *CategoryService) FetchAllCategories(ctx context.Context, limit entity.Limit) (*entity.CategorizedEntries, error) {
	if err := limit.Validate(); err != nil {
		return nil, err
	}

	categories := s.provider.Categories().Categories()
	slots := make([]entity.EntryCollection, len(categories))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallelism)

	for i, category := range categories {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			entries, err := s.fetch(egCtx, category, limit)
			if err != nil {
				return err
			}
			slots[i] = entries
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := entity.NewCategorizedEntries(len(categories))
	for i, category := range categories {
		result.Put(category.Name, slots[i])
	}
	return result, nil
}

func (s *CategoryService) fetch(ctx context.Context, category entity.Category, limit entity.Limit) (entries entity.EntryCollection, err error) {
	baseURL := s.provider.BaseURL()
	url := s.provider.FeedURL(category)

	ctx, span := tracing.GetTracer().Start(ctx, "feed.FetchCategory")
	span.SetAttributes(
		attribute.String("provider", baseURL),
		attribute.String("category", category.Name),
		attribute.String("feed_url", url),
	)
	defer func() { tracing.EndSpan(span, err) }()

	start := time.Now()
	entries, err = s.fetcher.Fetch(ctx, url, limit)
	if err != nil {
		metrics.RecordFeedFetchError(baseURL, category.Name, errorKindLabel(err))
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("category feed not found",
				slog.String("provider", baseURL),
				slog.String("category", category.Name),
				slog.String("feed_url", url))
		} else {
			s.logger.Warn("failed to fetch category feed",
				slog.String("provider", baseURL),
				slog.String("category", category.Name),
				slog.String("feed_url", url),
				slog.Any("error", err))
		}
		return nil, err
	}

	if entries == nil {
		entries = entity.EntryCollection{}
	}
	entries = entries.Truncate(limit)

	duration := time.Since(start)
	metrics.RecordFeedFetch(baseURL, category.Name, duration, len(entries))
	s.logger.Debug("category feed fetched",
		slog.String("provider", baseURL),
		slog.String("category", category.Name),
		slog.String("feed_url", url),
		slog.Int("entries", len(entries)),
		slog.Duration("duration", duration))
	span.SetAttributes(attribute.Int("entries", len(entries)))

	return entries, nil
}
