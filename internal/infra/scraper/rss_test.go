package scraper_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/infra/scraper"
	"newswire/internal/usecase/feed"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Home</title>
    <link>https://news.example.com</link>
    <description>Top stories</description>
    <item>
      <title>Article 1</title>
      <link>https://news.example.com/article1</link>
    </item>
    <item>
      <title>No link here</title>
    </item>
    <item>
      <title> Article 3 </title>
      <link> https://news.example.com/article3 </link>
    </item>
  </channel>
</rss>`

func newFetcher() *scraper.RSSFetcher {
	cfg := scraper.DefaultConfig()
	cfg.Timeout = 5 * time.Second
	return scraper.NewRSSFetcher(nil, cfg, slog.New(slog.DiscardHandler))
}

func serve(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if ua := r.Header.Get("User-Agent"); ua != "NewswireBot/1.0" {
			t.Errorf("User-Agent = %q, want NewswireBot/1.0", ua)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestRSSFetcher_Fetch_Success(t *testing.T) {
	server, _ := serve(t, http.StatusOK, rssFeed)

	entries, err := newFetcher().Fetch(context.Background(), server.URL+"/home.xml", entity.NoLimit())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("entries length = %d, want 3", len(entries))
	}
	if entries[0].Title != "Article 1" || entries[0].Link != "https://news.example.com/article1" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1] != nil {
		t.Errorf("entries[1] = %+v, want nil slot for item without link", entries[1])
	}
	if entries[2].Title != "Article 3" || entries[2].Link != "https://news.example.com/article3" {
		t.Errorf("entries[2] = %+v, want trimmed title and link", entries[2])
	}
}

func TestRSSFetcher_Fetch_Atom(t *testing.T) {
	atom := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <updated>2024-01-01T00:00:00Z</updated>
  <entry>
    <title>Atom Article 1</title>
    <link href="https://example.com/atom1"/>
    <id>urn:1</id>
    <updated>2024-01-01T00:00:00Z</updated>
  </entry>
</feed>`
	server, _ := serve(t, http.StatusOK, atom)

	entries, err := newFetcher().Fetch(context.Background(), server.URL, entity.NoLimit())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Link != "https://example.com/atom1" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestRSSFetcher_Fetch_Limit(t *testing.T) {
	server, _ := serve(t, http.StatusOK, rssFeed)

	for _, limit := range []int{1, 2, 3, 10} {
		entries, err := newFetcher().Fetch(context.Background(), server.URL, entity.LimitTo(limit))
		if err != nil {
			t.Fatalf("Fetch(limit=%d) error = %v", limit, err)
		}
		if len(entries) > limit {
			t.Errorf("Fetch(limit=%d) returned %d entries", limit, len(entries))
		}
	}
}

func TestRSSFetcher_Fetch_InvalidLimit(t *testing.T) {
	server, hits := serve(t, http.StatusOK, rssFeed)

	_, err := newFetcher().Fetch(context.Background(), server.URL, entity.LimitTo(0))
	if !errors.Is(err, entity.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times, want 0", hits.Load())
	}
}

func TestRSSFetcher_Fetch_EmptyFeed(t *testing.T) {
	server, _ := serve(t, http.StatusOK, `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`)

	entries, err := newFetcher().Fetch(context.Background(), server.URL, entity.NoLimit())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %#v, want empty non-nil collection", entries)
	}
}

func TestRSSFetcher_Fetch_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind feed.ErrorKind
		sentinel error
	}{
		{name: "not found", status: http.StatusNotFound, wantKind: feed.KindNotFound, sentinel: feed.ErrNotFound},
		{name: "gone", status: http.StatusGone, wantKind: feed.KindNotFound, sentinel: feed.ErrNotFound},
		{name: "server error", status: http.StatusBadGateway, wantKind: feed.KindTransient, sentinel: feed.ErrTransient},
		{name: "rate limited", status: http.StatusTooManyRequests, wantKind: feed.KindTransient, sentinel: feed.ErrTransient},
		{name: "not a feed", status: http.StatusOK, body: "<html><body>hello</body></html>", wantKind: feed.KindMalformed, sentinel: feed.ErrMalformed},
		{name: "broken xml", status: http.StatusOK, body: "<rss><channel><item>", wantKind: feed.KindMalformed, sentinel: feed.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := serve(t, tt.status, tt.body)

			_, err := newFetcher().Fetch(context.Background(), server.URL, entity.NoLimit())

			var fe *feed.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *feed.FetchError", err)
			}
			if fe.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", fe.Kind, tt.wantKind)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			if fe.URL != server.URL {
				t.Errorf("URL = %q, want %q", fe.URL, server.URL)
			}
			if hits.Load() != 1 {
				t.Errorf("server hit %d times, want exactly 1 (no retry)", hits.Load())
			}
		})
	}
}

func TestRSSFetcher_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newFetcher().Fetch(context.Background(), url, entity.NoLimit())

	if !errors.Is(err, feed.ErrTransient) {
		t.Fatalf("error = %v, want transient", err)
	}
}

func TestRSSFetcher_Fetch_BodyTooLarge(t *testing.T) {
	server, _ := serve(t, http.StatusOK, rssFeed+strings.Repeat(" ", 4096))
	cfg := scraper.DefaultConfig()
	cfg.MaxBodySize = 1024
	fetcher := scraper.NewRSSFetcher(nil, cfg, slog.New(slog.DiscardHandler))

	_, err := fetcher.Fetch(context.Background(), server.URL, entity.NoLimit())

	if !errors.Is(err, feed.ErrMalformed) {
		t.Fatalf("error = %v, want malformed", err)
	}
}

func TestRSSFetcher_Fetch_CircuitOpens(t *testing.T) {
	server, hits := serve(t, http.StatusServiceUnavailable, "")
	fetcher := newFetcher()

	// FeedFetchConfig trips after 10 requests at 70% failure.
	for range 10 {
		_, _ = fetcher.Fetch(context.Background(), server.URL, entity.NoLimit())
	}
	before := hits.Load()

	_, err := fetcher.Fetch(context.Background(), server.URL, entity.NoLimit())

	if !errors.Is(err, feed.ErrTransient) {
		t.Fatalf("error = %v, want transient rejection", err)
	}
	if hits.Load() != before {
		t.Errorf("open circuit still reached the server")
	}
}

func TestRSSFetcher_Fetch_NotFoundDoesNotTrip(t *testing.T) {
	server, hits := serve(t, http.StatusNotFound, "")
	fetcher := newFetcher()

	for range 15 {
		_, _ = fetcher.Fetch(context.Background(), server.URL, entity.NoLimit())
	}

	if hits.Load() != 15 {
		t.Errorf("server hit %d times, want 15", hits.Load())
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("FEED_FETCH_TIMEOUT", "30s")
	t.Setenv("FEED_USER_AGENT", "TestBot/2.0")
	t.Setenv("FEED_MAX_BODY_SIZE_KB", "not-a-number")

	cfg := scraper.LoadConfigFromEnv(slog.New(slog.DiscardHandler))

	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.UserAgent != "TestBot/2.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.MaxBodySize != scraper.DefaultConfig().MaxBodySize {
		t.Errorf("MaxBodySize = %d, want default after fallback", cfg.MaxBodySize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestFeedConfig_Validate(t *testing.T) {
	cfg := scraper.DefaultConfig()
	cfg.Timeout = 0
	if cfg.Validate() == nil {
		t.Error("expected error for zero timeout")
	}

	cfg = scraper.DefaultConfig()
	cfg.UserAgent = ""
	if cfg.Validate() == nil {
		t.Error("expected error for empty user agent")
	}
}
