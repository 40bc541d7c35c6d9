package llm

import (
	"log/slog"

	"assistant/internal/config"
)

// SetupProviders initializes the provider factory and registry for routing.
func SetupProviders(cfg *config.Config, logger *slog.Logger) *ProviderRegistry {
	registry := NewProviderRegistry(NewProviderFactory(cfg))

	if cfg.APIKey != "" || cfg.APIBaseURL != "" {
		logger.Info("provider available", "name", ProviderOpenAI, "base_url", cfg.APIBaseURL)
	} else {
		logger.Warn("API_KEY not set - OpenAI provider not available")
	}
	logger.Info("provider available", "name", ProviderLorem, "models", "lorem-*")

	return registry
}
