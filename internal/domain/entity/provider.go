package entity

import (
	"fmt"
	"strings"
)

// Category is a named feed of a provider. Path is appended to the provider base URL.
type Category struct {
	Name string
	Path string
}

// CategorySet is the closed, ordered set of categories a provider offers.
// It is built once and never modified.
type CategorySet struct {
	items []Category
}

// NewCategorySet builds a set from categories in declaration order.
// Empty or repeated names are rejected.
func NewCategorySet(categories ...Category) (CategorySet, error) {
	seen := make(map[string]struct{}, len(categories))
	items := make([]Category, 0, len(categories))
	for _, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return CategorySet{}, &ValidationError{Field: "category", Message: "category name is required"}
		}
		if _, dup := seen[c.Name]; dup {
			return CategorySet{}, fmt.Errorf("%w: %s", ErrDuplicateCategory, c.Name)
		}
		seen[c.Name] = struct{}{}
		items = append(items, c)
	}
	return CategorySet{items: items}, nil
}

// MustCategorySet is NewCategorySet for static tables; it panics on error.
func MustCategorySet(categories ...Category) CategorySet {
	set, err := NewCategorySet(categories...)
	if err != nil {
		panic(err)
	}
	return set
}

// Categories returns a copy of the categories in declaration order.
func (s CategorySet) Categories() []Category {
	out := make([]Category, len(s.items))
	copy(out, s.items)
	return out
}

// Names returns the category names in declaration order.
func (s CategorySet) Names() []string {
	names := make([]string, len(s.items))
	for i, c := range s.items {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a category by name.
func (s CategorySet) Lookup(name string) (Category, bool) {
	for _, c := range s.items {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Len returns the number of categories.
func (s CategorySet) Len() int {
	return len(s.items)
}

// NewsProvider is a news site exposing one feed per category under a common base URL.
type NewsProvider struct {
	baseURL    string
	categories CategorySet
}

// NewNewsProvider validates baseURL and returns the provider.
// An invalid base URL is a construction failure; the URL is trusted afterwards.
func NewNewsProvider(baseURL string, categories CategorySet) (*NewsProvider, error) {
	if err := ValidateURL(baseURL); err != nil {
		return nil, fmt.Errorf("news provider base url %q: %w", baseURL, err)
	}
	return &NewsProvider{baseURL: baseURL, categories: categories}, nil
}

// BaseURL returns the validated base URL.
func (p *NewsProvider) BaseURL() string {
	return p.baseURL
}

// Categories returns the provider's category set.
func (p *NewsProvider) Categories() CategorySet {
	return p.categories
}

// FeedURL returns the feed URL of a category.
func (p *NewsProvider) FeedURL(c Category) string {
	return p.baseURL + c.Path
}
