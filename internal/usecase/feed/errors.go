// Package feed provides the per-provider category feed use cases.
// It turns a provider's category table into feed URLs, delegates retrieval to a
// FeedFetcher and aggregates the results in category declaration order.
package feed

import (
	"errors"
	"fmt"
)

// ErrorKind classifies feed fetch failures.
type ErrorKind int

const (
	// KindTransient covers network failures, timeouts and unexpected HTTP statuses.
	KindTransient ErrorKind = iota + 1
	// KindNotFound means the feed URL answered 404 or 410.
	KindNotFound
	// KindMalformed means the response could not be parsed as RSS or Atom.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Sentinel errors matching FetchError kinds through errors.Is.
var (
	ErrTransient = errors.New("transient feed fetch failure")
	ErrNotFound  = errors.New("feed not found")
	ErrMalformed = errors.New("malformed feed")
)

// FetchError is returned by a FeedFetcher when a feed cannot be retrieved.
// It is fatal to the provider's aggregation and is never retried.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch feed %s: %s", e.URL, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrTransient:
		return e.Kind == KindTransient
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

// errorKindLabel returns the metric label for err.
func errorKindLabel(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind.String()
	}
	return "other"
}
