package fetcher

import "errors"

// Sentinel errors wrapped inside orchestrator.ExtractionError.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an unsupported scheme.
	//
	// Examples:
	//   - "not-a-url" → ErrInvalidURL
	//   - "file:///etc/passwd" → ErrInvalidURL
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private IP address.
	//
	// Examples:
	//   - "http://localhost" → ErrPrivateIP
	//   - "http://192.168.1.1" → ErrPrivateIP
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrUnexpectedStatus indicates a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrReadabilityFailed indicates content extraction failed.
	// The page was fetched but no article body could be identified.
	ErrReadabilityFailed = errors.New("content extraction failed")
)
