// Package provider holds the set of configured news providers.
package provider

import (
	"iter"
	"log/slog"
	"sync"

	"newswire/internal/domain/entity"
)

// Registry maps provider keys to news providers in registration order.
// It is built once at start-up and read concurrently during a run.
type Registry struct {
	mu        sync.RWMutex
	keys      []string
	providers map[string]*entity.NewsProvider
	logger    *slog.Logger
}

// NewRegistry returns an empty registry. A nil logger uses slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		providers: make(map[string]*entity.NewsProvider),
		logger:    logger,
	}
}

// Register stores p under key.
// Registering an existing key replaces the provider, keeps the key's position
// and logs a warning. A nil provider is logged as an error and ignored.
func (r *Registry) Register(key string, p *entity.NewsProvider) {
	if p == nil {
		r.logger.Error("nil provider not registered", slog.String("key", key))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, exists := r.providers[key]; exists {
		r.logger.Warn("provider already registered, overwriting",
			slog.String("key", key),
			slog.String("previous_base_url", previous.BaseURL()),
			slog.String("base_url", p.BaseURL()))
	} else {
		r.keys = append(r.keys, key)
	}
	r.providers[key] = p
}

// Get returns the provider registered under key.
func (r *Registry) Get(key string) (*entity.NewsProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[key]
	return p, ok
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []*entity.NewsProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.NewsProvider, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.providers[k])
	}
	return out
}

// All iterates over key and provider in registration order.
// The iteration works on a snapshot taken when it starts.
func (r *Registry) All() iter.Seq2[string, *entity.NewsProvider] {
	return func(yield func(string, *entity.NewsProvider) bool) {
		keys := r.Keys()
		for _, k := range keys {
			p, _ := r.Get(k)
			if !yield(k, p) {
				return
			}
		}
	}
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}
