package capabilities

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var catalogFS embed.FS

// Registry is the model catalog served by /api/models/capabilities and used
// to pick per-model generation defaults.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]*ProviderCapabilities
}

// NewRegistry loads every embedded catalog. The file name is the provider name.
func NewRegistry() (*Registry, error) {
	r := &Registry{providers: make(map[string]*ProviderCapabilities)}

	entries, err := catalogFS.ReadDir("config")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data, err := catalogFS.ReadFile(path.Join("config", e.Name()))
		if err != nil {
			return nil, err
		}
		if err := r.Load(strings.TrimSuffix(e.Name(), ".yaml"), data); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Load parses a catalog and replaces whatever was registered under provider.
func (r *Registry) Load(provider string, data []byte) error {
	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("catalog %s: %w", provider, err)
	}
	if caps.Provider == "" {
		caps.Provider = provider
	}

	r.mu.Lock()
	r.providers[provider] = &caps
	r.mu.Unlock()
	return nil
}

// GetModelCapabilities returns a copy of one catalog entry.
func (r *Registry) GetModelCapabilities(provider, model string) (*ModelCapabilities, error) {
	p, ok := r.GetProvider(provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	i := slices.IndexFunc(p.Models, func(m ModelCapabilities) bool { return m.ID == model })
	if i < 0 {
		return nil, fmt.Errorf("unknown model %s for provider %s", model, provider)
	}
	m := p.Models[i]
	return &m, nil
}

// ListProviderModels returns a provider's models in catalog order.
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	p, ok := r.GetProvider(provider)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	return p.Models, nil
}

// GetProvider returns a copy of a provider's catalog.
func (r *Registry) GetProvider(provider string) (*ProviderCapabilities, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[provider]
	if !ok {
		return nil, false
	}
	out := *p
	out.Models = slices.Clone(p.Models)
	return &out, true
}

// GetAllProviders returns provider names sorted.
func (r *Registry) GetAllProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
