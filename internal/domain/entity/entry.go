package entity

import "iter"

// Entry is a single item of a news feed.
type Entry struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// NewEntry returns an entry for the given title and link.
func NewEntry(title, link string) *Entry {
	return &Entry{Title: title, Link: link}
}

// EntryCollection is the ordered content of one feed.
// A nil slot stands for a feed item that could not be read; callers skip it.
type EntryCollection []*Entry

// Truncate returns the collection bounded by limit. The backing array is shared.
func (c EntryCollection) Truncate(limit Limit) EntryCollection {
	return c[:limit.Apply(len(c))]
}

// Present iterates over the non-nil entries, yielding their position in the collection.
func (c EntryCollection) Present() iter.Seq2[int, *Entry] {
	return func(yield func(int, *Entry) bool) {
		for i, e := range c {
			if e == nil {
				continue
			}
			if !yield(i, e) {
				return
			}
		}
	}
}

// orderedMap keeps values in first-insertion order. Setting an existing key
// replaces its value without moving it.
type orderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func newOrderedMap[V any](capacity int) orderedMap[V] {
	return orderedMap[V]{
		keys:   make([]string, 0, capacity),
		values: make(map[string]V, capacity),
	}
}

func (m *orderedMap[V]) set(key string, v V) bool {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	_, exists := m.values[key]
	if !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return exists
}

func (m *orderedMap[V]) get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap[V]) all() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

func (m *orderedMap[V]) names() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// CategorizedEntries maps category names to their entries for one provider,
// in category declaration order.
type CategorizedEntries struct {
	m orderedMap[EntryCollection]
}

// NewCategorizedEntries returns an empty mapping sized for capacity categories.
func NewCategorizedEntries(capacity int) *CategorizedEntries {
	return &CategorizedEntries{m: newOrderedMap[EntryCollection](capacity)}
}

// Put stores the entries of a category.
func (c *CategorizedEntries) Put(category string, entries EntryCollection) {
	c.m.set(category, entries)
}

// Get returns the entries of a category.
func (c *CategorizedEntries) Get(category string) (EntryCollection, bool) {
	return c.m.get(category)
}

// Categories returns the category names in order.
func (c *CategorizedEntries) Categories() []string {
	return c.m.names()
}

// Len returns the number of categories.
func (c *CategorizedEntries) Len() int {
	return len(c.m.keys)
}

// All iterates over category name and entries in order.
func (c *CategorizedEntries) All() iter.Seq2[string, EntryCollection] {
	return c.m.all()
}

// EntryCount returns the number of entry slots across all categories, nil slots included.
func (c *CategorizedEntries) EntryCount() int {
	n := 0
	for _, entries := range c.m.all() {
		n += len(entries)
	}
	return n
}

// ProviderEntries maps provider base URLs to their categorized entries,
// in provider registration order.
type ProviderEntries struct {
	m orderedMap[*CategorizedEntries]
}

// NewProviderEntries returns an empty mapping sized for capacity providers.
func NewProviderEntries(capacity int) *ProviderEntries {
	return &ProviderEntries{m: newOrderedMap[*CategorizedEntries](capacity)}
}

// Put stores the categorized entries of a provider.
func (p *ProviderEntries) Put(baseURL string, entries *CategorizedEntries) {
	p.m.set(baseURL, entries)
}

// Get returns the categorized entries of a provider.
func (p *ProviderEntries) Get(baseURL string) (*CategorizedEntries, bool) {
	return p.m.get(baseURL)
}

// BaseURLs returns the provider base URLs in order.
func (p *ProviderEntries) BaseURLs() []string {
	return p.m.names()
}

// Len returns the number of providers.
func (p *ProviderEntries) Len() int {
	return len(p.m.keys)
}

// All iterates over base URL and categorized entries in order.
func (p *ProviderEntries) All() iter.Seq2[string, *CategorizedEntries] {
	return p.m.all()
}
