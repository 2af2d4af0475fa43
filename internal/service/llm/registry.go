package llm

import (
	"context"
	"fmt"
	"sync"

	domainllm "tripmitra/internal/domain/services/llm"
)

// ProviderRegistry creates provider adapters on first use and caches them.
type ProviderRegistry struct {
	factory *ProviderFactory
	cache   map[string]domainllm.ModelProvider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory *ProviderFactory) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]domainllm.ModelProvider),
	}
}

// GetProvider returns the adapter for the given provider name.
func (r *ProviderRegistry) GetProvider(ctx context.Context, provider string) (domainllm.ModelProvider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created the provider while we waited for the lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	adapter, err := r.factory.GetProvider(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = adapter
	return adapter, nil
}

// Validate checks if the factory is properly configured.
// Should be called at startup to fail fast if misconfigured.
func (r *ProviderRegistry) Validate() error {
	if r.factory == nil {
		return fmt.Errorf("provider factory is not configured")
	}
	return nil
}
