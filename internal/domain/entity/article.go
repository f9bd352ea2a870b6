// Package entity defines the core domain values of the news pipeline: feed entries,
// categories, news providers and parsed articles, together with their validation rules
// and domain-specific errors.
package entity

// ParsedArticle is the full content extracted from a single article page.
type ParsedArticle struct {
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Authors []string `json:"authors"`
	Body    string   `json:"body"`
}
