package llm

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Router holds the registered providers and resolves the configured
// selection to a concrete one.
type Router struct {
	providers       map[string]Provider
	defaultProvider string
	mu              sync.RWMutex
}

// NewRouter creates a new provider router
func NewRouter(defaultProvider string) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// RegisterProvider registers a provider under its own name
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// Resolve returns the provider for name, or falls back to the default. An
// unknown selection is a misconfiguration worth a warning, not a crash: the
// process keeps serving on whatever provider is available.
func (r *Router) Resolve(name string) Provider {
	if name == "" {
		name = r.defaultProvider
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.providers[name]; ok && p.IsConfigured() {
		return p
	}

	log.Warn().Str("provider", name).Msg("unknown or unconfigured LLM provider, falling back to default")

	if p, ok := r.providers[r.defaultProvider]; ok {
		return p
	}

	// Last resort: any registered provider
	for _, p := range r.providers {
		return p
	}
	return nil
}

// DefaultProvider returns the default provider name
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}
