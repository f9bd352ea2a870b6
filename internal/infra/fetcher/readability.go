package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"newswire/internal/domain/entity"
	"newswire/internal/resilience/circuitbreaker"
	"newswire/internal/usecase/orchestrator"
)

// ReadabilityExtractor implements orchestrator.ArticleExtractor using the Mozilla
// Readability algorithm (go-shiori/go-readability).
//
// Features:
//   - SSRF prevention via URL and redirect validation
//   - Request throttling shared by all article hosts
//   - One circuit breaker per article host
//   - Size limiting to prevent memory exhaustion
//
// Thread safety: ReadabilityExtractor is safe for concurrent use.
type ReadabilityExtractor struct {
	client   *http.Client
	limiter  *rate.Limiter
	resolver *net.Resolver
	config   ExtractConfig
	logger   *slog.Logger

	breakersMu sync.Mutex
	breakers   map[string]*circuitbreaker.CircuitBreaker
}

// NewReadabilityExtractor creates an extractor with the given configuration.
//
// Example:
//
//	cfg := DefaultConfig()
//	extractor := NewReadabilityExtractor(cfg, logger)
//	article, err := extractor.Extract(ctx, "https://example.com/article")
func NewReadabilityExtractor(cfg ExtractConfig, logger *slog.Logger) *ReadabilityExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	e := &ReadabilityExtractor{
		limiter:  limiter,
		resolver: net.DefaultResolver,
		config:   cfg,
		logger:   logger,
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}

	e.client = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12, // Enforce TLS 1.2+
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > e.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.Context(), e.resolver, req.URL.String(), e.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return e
}

// Extract downloads the article at urlStr and extracts its title, authors and body.
// Every failure is returned as *orchestrator.ExtractionError; the request is not retried.
func (e *ReadabilityExtractor) Extract(ctx context.Context, urlStr string) (*entity.ParsedArticle, error) {
	fail := func(err error) (*entity.ParsedArticle, error) {
		return nil, &orchestrator.ExtractionError{URL: urlStr, Err: err}
	}

	if err := validateURL(ctx, e.resolver, urlStr, e.config.DenyPrivateIPs); err != nil {
		return fail(err)
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return fail(err)
	}

	cb := e.breakerFor(urlStr)
	article, err := circuitbreaker.Run(cb, func() (*entity.ParsedArticle, error) {
		return e.doExtract(ctx, urlStr)
	})
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			e.logger.Warn("article extraction circuit breaker open, request rejected",
				slog.String("circuit", cb.Name()),
				slog.String("url", urlStr),
				slog.String("state", cb.State().String()))
		}
		return fail(err)
	}
	return article, nil
}

// breakerFor returns the circuit breaker of the article's host, creating it on
// first use. A failing host does not block articles of other hosts.
func (e *ReadabilityExtractor) breakerFor(urlStr string) *circuitbreaker.CircuitBreaker {
	host := ""
	if u, err := url.Parse(urlStr); err == nil {
		host = strings.ToLower(u.Host)
	}

	e.breakersMu.Lock()
	defer e.breakersMu.Unlock()

	cb, ok := e.breakers[host]
	if !ok {
		cfg := circuitbreaker.ArticleExtractConfig()
		cfg.Name = "article-extract:" + host
		cfg.Logger = e.logger
		cb = circuitbreaker.New(cfg)
		e.breakers[host] = cb
	}
	return cb
}

// doExtract performs the HTTP request and content extraction.
func (e *ReadabilityExtractor) doExtract(ctx context.Context, urlStr string) (*entity.ParsedArticle, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request exceeded %v", ErrTimeout, e.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, e.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > e.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response size exceeds limit %d bytes", ErrBodyTooLarge, e.config.MaxBodySize)
	}

	// The final URL may differ from urlStr after redirects.
	finalURL := resp.Request.URL

	parsed, err := readability.FromReader(bytes.NewReader(htmlBytes), finalURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	body := strings.TrimSpace(parsed.TextContent)
	if body == "" {
		return nil, fmt.Errorf("%w: no readable content found", ErrReadabilityFailed)
	}

	meta := readMetadata(htmlBytes)
	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		title = meta.title
	}

	return &entity.ParsedArticle{
		Title:   title,
		URL:     finalURL.String(),
		Authors: mergeAuthors(meta.authors, parsed.Byline),
		Body:    body,
	}, nil
}
