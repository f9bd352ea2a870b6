// Package circuitbreaker guards calls to remote hosts with a
// github.com/sony/gobreaker breaker. Both network capabilities of the pipeline,
// feed fetching and article extraction, run their requests through one.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrOpenState rejects calls while the circuit is open.
	ErrOpenState = gobreaker.ErrOpenState
	// ErrTooManyRequests rejects calls beyond MaxRequests while half-open.
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// Config describes when a circuit trips and how it recovers.
//
// The circuit opens once at least MinRequests calls were seen in the current
// Interval and the share of failures reaches FailureThreshold (0.7 = 70%). It
// stays open for Timeout, then lets MaxRequests probe calls through.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32

	// IsSuccessful classifies errors of the wrapped call. Nil means CountsAsSuccess.
	IsSuccessful func(err error) bool
	// Logger receives state changes. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a general purpose configuration named name.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// FeedFetchConfig is used for RSS and Atom feed requests.
func FeedFetchConfig() Config {
	cfg := DefaultConfig("feed-fetch")
	cfg.MaxRequests = 5
	cfg.Interval = time.Minute
	cfg.Timeout = 2 * time.Minute
	cfg.FailureThreshold = 0.7
	cfg.MinRequests = 10
	return cfg
}

// ArticleExtractConfig is used for article page requests, which fail one by one
// far more often than feeds do.
func ArticleExtractConfig() Config {
	cfg := DefaultConfig("article-extract")
	cfg.Interval = time.Minute
	cfg.Timeout = 5 * time.Minute
	cfg.FailureThreshold = 0.8
	cfg.MinRequests = 20
	return cfg
}

// CountsAsSuccess treats nil and caller cancellation as success.
func CountsAsSuccess(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// CircuitBreaker is a named gobreaker circuit.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New builds a circuit from cfg.
func New(cfg Config) *CircuitBreaker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	isSuccessful := cfg.IsSuccessful
	if isSuccessful == nil {
		isSuccessful = CountsAsSuccess
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= cfg.MinRequests &&
				float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
		IsSuccessful: isSuccessful,
	})

	return &CircuitBreaker{breaker: breaker, name: cfg.Name}
}

// Run calls fn through cb. While the circuit is open fn is not called and the
// error is ErrOpenState.
func Run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := cb.breaker.Execute(func() (any, error) {
		return fn()
	})
	v, _ := result.(T)
	return v, err
}

func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// IsRejection reports whether err came from the breaker itself rather than the wrapped call.
func IsRejection(err error) bool {
	return errors.Is(err, ErrOpenState) || errors.Is(err, ErrTooManyRequests)
}
