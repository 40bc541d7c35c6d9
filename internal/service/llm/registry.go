package llm

import (
	"fmt"
	"sync"

	domainllm "assistant/internal/domain/services/llm"
)

// ProviderSource creates providers by name
type ProviderSource interface {
	GetProvider(providerName string) (domainllm.LLMProvider, error)
}

// ProviderRegistry routes model requests to the appropriate provider.
// Uses ParseModel to extract the provider from the model string, then the
// factory to create instances, which are cached for reuse.
type ProviderRegistry struct {
	factory ProviderSource
	cache   map[string]domainllm.LLMProvider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory ProviderSource) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		cache:   make(map[string]domainllm.LLMProvider),
	}
}

// Register installs a provider instance under its name, replacing any
// cached one.
func (r *ProviderRegistry) Register(p domainllm.LLMProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[p.Name()] = p
}

// GetProvider returns the provider for the given provider name.
func (r *ProviderRegistry) GetProvider(provider string) (domainllm.LLMProvider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: check cache with read lock
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

	if r.factory == nil {
		return nil, fmt.Errorf("%w: provider '%s' is not registered", ErrUnsupportedModel, provider)
	}

	p, err := r.factory.GetProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = p
	return p, nil
}

// ProviderFor parses a model string and returns its provider.
func (r *ProviderRegistry) ProviderFor(model string) (domainllm.LLMProvider, *ModelInfo, error) {
	info, err := ParseModel(model)
	if err != nil {
		return nil, nil, err
	}

	p, err := r.GetProvider(info.Provider)
	if err != nil {
		return nil, nil, err
	}

	if !p.SupportsModel(info.Model) {
		return nil, nil, fmt.Errorf("%w: '%s' is not served by provider '%s'", ErrUnsupportedModel, info.Model, info.Provider)
	}

	return p, info, nil
}
