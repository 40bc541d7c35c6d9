package llm

import (
	"fmt"

	"assistant/internal/config"
	domainllm "assistant/internal/domain/services/llm"
	"assistant/internal/service/llm/providers/lorem"
	"assistant/internal/service/llm/providers/openai"
)

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderLorem  = "lorem"
)

// ProviderFactory creates provider instances from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "openai" - any OpenAI-compatible chat completions endpoint (API_BASE_URL)
//   - "lorem" - offline placeholder text (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.LLMProvider, error) {
	switch providerName {
	case ProviderOpenAI:
		return f.createOpenAIProvider()
	case ProviderLorem:
		return lorem.NewProvider(), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, providerName)
	}
}

func (f *ProviderFactory) createOpenAIProvider() (domainllm.LLMProvider, error) {
	if f.config.APIKey == "" && f.config.APIBaseURL == "" {
		return nil, fmt.Errorf("openai provider needs API_KEY or API_BASE_URL")
	}
	return openai.NewProvider(f.config.APIKey, f.config.APIBaseURL), nil
}
